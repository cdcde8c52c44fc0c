package cmd

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/internal/agent/specialists"
	"github.com/wqeqwqeq/AzureAgent/pkg/account"
	"github.com/wqeqwqeq/AzureAgent/pkg/auth"
	"github.com/wqeqwqeq/AzureAgent/pkg/config"
)

// runtime holds the process-wide wiring: settings, the immutable registry,
// the dispatcher, and the conversation context shared across turns.
type runtime struct {
	settings     *config.Settings
	dispatcher   *agent.Dispatcher
	conversation *agent.Context
}

func buildRuntime() (*runtime, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	authManager := auth.NewManager()
	source := auth.CredentialSource{
		Method:   settings.AuthMethod,
		TenantID: settings.TenantID,
		ClientID: settings.ClientID,
	}
	provider := agent.AuthProviderFunc(func(ctx context.Context) (azcore.TokenCredential, error) {
		return authManager.CredentialForSource(ctx, source)
	})

	fallback, domain := specialists.Load()
	registry, err := agent.NewRegistry(fallback, domain...)
	if err != nil {
		return nil, fmt.Errorf("building specialist registry: %w", err)
	}

	adapter := agent.NewAdapter(settings.OperationTimeout, settings.DryRunDefault)
	resolver := &subscriptionResolver{service: account.NewSubscriptionsService(nil)}
	dispatcher := agent.NewDispatcher(registry, adapter, agent.WithSubscriptionResolver(resolver))

	conversation := agent.NewContext(provider)
	if settings.SubscriptionID != "" {
		if err := conversation.Merge(agent.Delta{SubscriptionID: settings.SubscriptionID}); err != nil {
			return nil, fmt.Errorf("seeding subscription from settings: %w", err)
		}
	}

	return &runtime{
		settings:     settings,
		dispatcher:   dispatcher,
		conversation: conversation,
	}, nil
}

// subscriptionResolver resolves subscription display names against the
// subscriptions the conversation's credential can see.
type subscriptionResolver struct {
	service *account.SubscriptionsService
}

func (r *subscriptionResolver) Resolve(ctx context.Context, conversation *agent.Context, name string) (string, error) {
	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}
	return r.service.ResolveName(ctx, credential, name)
}
