package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/benbjohnson/clock"
)

// CredentialSource identifies how a credential is built. Credentials are
// cached process-wide per source, never per conversation.
type CredentialSource struct {
	Method   string
	TenantID string
	ClientID string
}

func (s CredentialSource) key() string {
	return fmt.Sprintf("%s/%s/%s", s.Method, s.TenantID, s.ClientID)
}

// Manager builds and caches token credentials. A cached credential is
// immutable once obtained; refreshing a token goes through the synchronized
// path inside cachedCredential.
type Manager struct {
	mu          sync.Mutex
	clk         clock.Clock
	credentials map[string]azcore.TokenCredential
}

func NewManager() *Manager {
	return &Manager{
		clk:         clock.New(),
		credentials: map[string]azcore.TokenCredential{},
	}
}

// NewManagerWithClock is used by tests to control token expiry.
func NewManagerWithClock(clk clock.Clock) *Manager {
	return &Manager{
		clk:         clk,
		credentials: map[string]azcore.TokenCredential{},
	}
}

// CredentialForSource returns the cached credential for the given source,
// building one on first use.
func (m *Manager) CredentialForSource(ctx context.Context, source CredentialSource) (azcore.TokenCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cred, ok := m.credentials[source.key()]; ok {
		return cred, nil
	}

	cred, err := m.newCredential(source)
	if err != nil {
		return nil, err
	}

	cached := newCachedCredential(cred, m.clk)
	m.credentials[source.key()] = cached
	return cached, nil
}

func (m *Manager) newCredential(source CredentialSource) (azcore.TokenCredential, error) {
	switch source.Method {
	case "", "default":
		cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: source.TenantID,
		})
		if err != nil {
			return nil, &Error{Reason: "building default credential chain", Err: err}
		}
		return cred, nil
	default:
		return nil, &Error{Reason: fmt.Sprintf("unsupported auth method %q", source.Method)}
	}
}
