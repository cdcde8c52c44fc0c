package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenSource hands out tokens valid for one hour from the mock clock.
type fakeTokenSource struct {
	clk   clock.Clock
	calls int
	err   error
}

func (s *fakeTokenSource) GetToken(
	ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	s.calls++
	if s.err != nil {
		return azcore.AccessToken{}, s.err
	}
	return azcore.AccessToken{
		Token:     "token",
		ExpiresOn: s.clk.Now().Add(time.Hour),
	}, nil
}

var testScopes = policy.TokenRequestOptions{Scopes: []string{"https://management.azure.com/.default"}}

func TestCachedCredentialReusesValidToken(t *testing.T) {
	clk := clock.NewMock()
	source := &fakeTokenSource{clk: clk}
	cached := newCachedCredential(source, clk)

	first, err := cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)
	second, err := cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestCachedCredentialRefreshesBeforeExpiry(t *testing.T) {
	clk := clock.NewMock()
	source := &fakeTokenSource{clk: clk}
	cached := newCachedCredential(source, clk)

	_, err := cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)

	// inside the early-expiry margin the token counts as expired
	clk.Add(56 * time.Minute)

	_, err = cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedCredentialKeepsTokenOutsideMargin(t *testing.T) {
	clk := clock.NewMock()
	source := &fakeTokenSource{clk: clk}
	cached := newCachedCredential(source, clk)

	_, err := cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)

	clk.Add(54 * time.Minute)

	_, err = cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
}

func TestCachedCredentialCachesPerScope(t *testing.T) {
	clk := clock.NewMock()
	source := &fakeTokenSource{clk: clk}
	cached := newCachedCredential(source, clk)

	_, err := cached.GetToken(context.Background(), testScopes)
	require.NoError(t, err)
	_, err = cached.GetToken(context.Background(), policy.TokenRequestOptions{
		Scopes: []string{"https://vault.azure.net/.default"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
}

func TestCachedCredentialRetriesThenFails(t *testing.T) {
	clk := clock.NewMock()
	source := &fakeTokenSource{clk: clk, err: errors.New("aad unreachable")}
	cached := newCachedCredential(source, clk)

	_, err := cached.GetToken(context.Background(), testScopes)

	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.ErrorContains(t, err, "aad unreachable")
	// initial attempt plus retries
	assert.Equal(t, 4, source.calls)
}

func TestManagerCachesCredentialPerSource(t *testing.T) {
	manager := NewManagerWithClock(clock.NewMock())
	source := CredentialSource{Method: "default", TenantID: "tenant-a"}

	first, err := manager.CredentialForSource(context.Background(), source)
	require.NoError(t, err)
	second, err := manager.CredentialForSource(context.Background(), source)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestManagerRejectsUnknownMethod(t *testing.T) {
	manager := NewManager()

	_, err := manager.CredentialForSource(context.Background(),
		CredentialSource{Method: "hardware-token"})

	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.ErrorContains(t, err, "unsupported auth method")
}
