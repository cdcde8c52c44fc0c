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

// SetSecretOperation creates or updates one secret in the targeted vault.
type SetSecretOperation struct {
	service kv.Service
}

// SetSecretRequest is the args payload for set_secret. DryRun defaults to
// the adapter's configured default for mutating operations.
type SetSecretRequest struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	DryRun bool   `json:"dryRun"`
}

// SetSecretResponse mirrors the stored secret without echoing its value.
type SetSecretResponse struct {
	Name   string `json:"name"`
	Id     string `json:"id,omitempty"`
	DryRun bool   `json:"dryRun"`
}

func (o *SetSecretOperation) Name() string {
	return "set_secret"
}

func (o *SetSecretOperation) Description() string {
	return `Set or update a secret in the targeted Azure Key Vault.

Input: JSON payload with the following structure:
{
  "name": "my-secret",
  "value": "s3cr3t",
  "dryRun": true    // optional: simulate without persisting the change
}`
}

func (o *SetSecretOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Set Key Vault Secret",
		ReadOnlyHint:    convert.ToPtr(false),
		DestructiveHint: convert.ToPtr(true),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *SetSecretOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request SetSecretRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("set_secret requires a secret name")
	}
	if request.Value == "" {
		return "", errors.New("set_secret requires a secret value")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	secret, err := o.service.SetSecret(
		ctx, credential, snapshot.ResourceName, request.Name, request.Value, request.DryRun)
	if err != nil {
		return "", fmt.Errorf("setting secret %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(SetSecretResponse{
		Name:   secret.Name,
		Id:     secret.Id,
		DryRun: request.DryRun,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	return string(payload), nil
}
