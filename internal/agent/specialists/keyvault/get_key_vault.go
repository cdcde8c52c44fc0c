package keyvault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
	kv "github.com/wqeqwqeq/AzureAgent/pkg/keyvault"
)

// GetKeyVaultOperation returns the control-plane properties of the targeted
// vault. Unlike the secret operations this goes through ARM, so it also needs
// the subscription.
type GetKeyVaultOperation struct {
	service kv.Service
}

func (o *GetKeyVaultOperation) Name() string {
	return "get_key_vault"
}

func (o *GetKeyVaultOperation) Description() string {
	return `Get the properties of the targeted Azure Key Vault, including soft delete and purge protection.

Input: no arguments. The subscription, resource group and vault are taken from the conversation context.`
}

func (o *GetKeyVaultOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Get Key Vault",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *GetKeyVaultOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	snapshot := conversation.Snapshot()
	if snapshot.SubscriptionID == "" {
		return "", errors.New("get_key_vault requires a subscription id in the conversation context")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	vault, err := o.service.GetKeyVault(
		ctx, credential, snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName)
	if err != nil {
		return "", fmt.Errorf("getting key vault %q: %w", snapshot.ResourceName, err)
	}

	payload, err := json.MarshalIndent(vault, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding key vault: %w", err)
	}

	return string(payload), nil
}
