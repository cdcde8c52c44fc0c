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

// GetSecretOperation reads one secret value from the targeted vault. The
// value goes to the caller only; it is never written to logs.
type GetSecretOperation struct {
	service kv.Service
}

// GetSecretRequest is the args payload for get_secret.
type GetSecretRequest struct {
	Name string `json:"name"`
}

func (o *GetSecretOperation) Name() string {
	return "get_secret"
}

func (o *GetSecretOperation) Description() string {
	return `Get the value of a specific secret from the targeted Azure Key Vault.

Input: JSON payload with the following structure:
{
  "name": "my-secret"
}`
}

func (o *GetSecretOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Get Key Vault Secret",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *GetSecretOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request GetSecretRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("get_secret requires a secret name")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	secret, err := o.service.GetSecret(ctx, credential, snapshot.ResourceName, request.Name)
	if err != nil {
		return "", fmt.Errorf("getting secret %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(secret, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding secret: %w", err)
	}

	return string(payload), nil
}
