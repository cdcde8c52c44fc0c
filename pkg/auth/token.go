package auth

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/benbjohnson/clock"
	"github.com/sethvargo/go-retry"
)

// Tokens are treated as expired this long before their actual expiry so a
// token handed to a long call does not lapse mid-flight.
const expiryMargin = 5 * time.Minute

// cachedCredential wraps a TokenCredential with a token cache. The cached
// token is reused until it is near expiry; refreshing is synchronized so
// concurrent readers never trigger more than one re-authentication.
type cachedCredential struct {
	inner azcore.TokenCredential
	clk   clock.Clock

	mu     sync.Mutex
	tokens map[string]azcore.AccessToken // keyed by joined scopes
}

func newCachedCredential(inner azcore.TokenCredential, clk clock.Clock) *cachedCredential {
	return &cachedCredential{
		inner:  inner,
		clk:    clk,
		tokens: map[string]azcore.AccessToken{},
	}
}

func (c *cachedCredential) GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	key := scopeKey(options.Scopes)

	c.mu.Lock()
	defer c.mu.Unlock()

	if token, ok := c.tokens[key]; ok {
		if c.clk.Now().Before(token.ExpiresOn.Add(-expiryMargin)) {
			return token, nil
		}
	}

	log.Printf("auth: acquiring token for scopes %s", key)

	var token azcore.AccessToken
	backoff := retry.WithMaxRetries(3, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		token, err = c.inner.GetToken(ctx, options)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return azcore.AccessToken{}, &Error{Reason: "acquiring access token", Err: err}
	}

	c.tokens[key] = token
	return token, nil
}

func scopeKey(scopes []string) string {
	key := ""
	for i, scope := range scopes {
		if i > 0 {
			key += " "
		}
		key += scope
	}
	return key
}
