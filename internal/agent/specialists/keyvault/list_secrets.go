package keyvault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
	kv "github.com/wqeqwqeq/AzureAgent/pkg/keyvault"
)

// ListSecretsOperation lists the secrets of the targeted vault. Only names
// and identifiers are returned, never values.
type ListSecretsOperation struct {
	service kv.Service
}

func (o *ListSecretsOperation) Name() string {
	return "list_secrets"
}

func (o *ListSecretsOperation) Description() string {
	return `List all secrets in the targeted Azure Key Vault.
Returns a JSON array of secrets with their names and version identifiers.
Secret values are not included; use get_secret for a specific value.

Input: no arguments. The vault is taken from the conversation context.`
}

func (o *ListSecretsOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "List Key Vault Secrets",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *ListSecretsOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	secrets, err := o.service.ListSecrets(ctx, credential, snapshot.ResourceName)
	if err != nil {
		return "", fmt.Errorf("listing secrets in vault %q: %w", snapshot.ResourceName, err)
	}

	payload, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding secrets: %w", err)
	}

	return string(payload), nil
}
