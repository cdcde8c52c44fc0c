package datafactory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
	adf "github.com/wqeqwqeq/AzureAgent/pkg/datafactory"
)

const defaultInteractiveAuthoringMinutes = 10

// GetIntegrationRuntimeOperation returns the details of one integration
// runtime, including whether it is Managed or SelfHosted.
type GetIntegrationRuntimeOperation struct {
	service adf.Service
}

type GetIntegrationRuntimeRequest struct {
	Name string `json:"name"`
}

func (o *GetIntegrationRuntimeOperation) Name() string {
	return "get_integration_runtime"
}

func (o *GetIntegrationRuntimeOperation) Description() string {
	return `Get details of a specific integration runtime in the targeted Azure Data Factory.

Input: JSON payload with the following structure:
{
  "name": "ir-managed-01"
}`
}

func (o *GetIntegrationRuntimeOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Get Integration Runtime",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *GetIntegrationRuntimeOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request GetIntegrationRuntimeRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("get_integration_runtime requires an integration runtime name")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	runtime, err := o.service.GetIntegrationRuntime(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name)
	if err != nil {
		return "", fmt.Errorf("getting integration runtime %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(runtime, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding integration runtime: %w", err)
	}

	return string(payload), nil
}

// GetIntegrationRuntimeStatusOperation reports the live state of one
// integration runtime.
type GetIntegrationRuntimeStatusOperation struct {
	service adf.Service
}

func (o *GetIntegrationRuntimeStatusOperation) Name() string {
	return "get_integration_runtime_status"
}

func (o *GetIntegrationRuntimeStatusOperation) Description() string {
	return `Get the current status of a specific integration runtime in the targeted Azure Data Factory,
including whether interactive authoring is enabled.

Input: JSON payload with the following structure:
{
  "name": "ir-managed-01"
}`
}

func (o *GetIntegrationRuntimeStatusOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Get Integration Runtime Status",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *GetIntegrationRuntimeStatusOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request GetIntegrationRuntimeRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("get_integration_runtime_status requires an integration runtime name")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	status, err := o.service.GetIntegrationRuntimeStatus(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name)
	if err != nil {
		return "", fmt.Errorf("getting integration runtime status for %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding integration runtime status: %w", err)
	}

	return string(payload), nil
}

// EnableInteractiveAuthoringOperation enables interactive authoring on a
// managed integration runtime for a bounded number of minutes. Enabling an
// already-enabled runtime is a no-op, and self-hosted runtimes are rejected
// before any call is made.
type EnableInteractiveAuthoringOperation struct {
	service adf.Service
}

type EnableInteractiveAuthoringRequest struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes,omitempty"`
	DryRun  bool   `json:"dryRun"`
}

type EnableInteractiveAuthoringResponse struct {
	Name           string `json:"name"`
	Minutes        int    `json:"minutes"`
	AlreadyEnabled bool   `json:"alreadyEnabled"`
	DryRun         bool   `json:"dryRun"`
}

func (o *EnableInteractiveAuthoringOperation) Name() string {
	return "enable_interactive_authoring"
}

func (o *EnableInteractiveAuthoringOperation) Description() string {
	return `Enable interactive authoring on a Managed integration runtime of the targeted Azure Data Factory.

Input: JSON payload with the following structure:
{
  "name": "ir-managed-01",
  "minutes": 10,    // optional: how long to keep interactive authoring enabled (default 10)
  "dryRun": true    // optional: simulate without enabling
}`
}

func (o *EnableInteractiveAuthoringOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Enable Interactive Authoring",
		ReadOnlyHint:    convert.ToPtr(false),
		DestructiveHint: convert.ToPtr(true),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *EnableInteractiveAuthoringOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request EnableInteractiveAuthoringRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("enable_interactive_authoring requires an integration runtime name")
	}
	if request.Minutes <= 0 {
		request.Minutes = defaultInteractiveAuthoringMinutes
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()

	status, err := o.service.GetIntegrationRuntimeStatus(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name)
	if err != nil {
		return "", fmt.Errorf("getting integration runtime status for %q: %w", request.Name, err)
	}

	response := EnableInteractiveAuthoringResponse{
		Name:    request.Name,
		Minutes: request.Minutes,
		DryRun:  request.DryRun,
	}

	if status.InteractiveAuthoringEnabled {
		response.AlreadyEnabled = true
		return encodeResponse(response)
	}

	runtime, err := o.service.GetIntegrationRuntime(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name)
	if err != nil {
		return "", fmt.Errorf("getting integration runtime %q: %w", request.Name, err)
	}
	if runtime.Type != "Managed" {
		return "", fmt.Errorf(
			"interactive authoring is only supported for Managed integration runtimes, %q is %s",
			request.Name, runtime.Type)
	}

	if err := o.service.EnableInteractiveAuthoring(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name, request.Minutes, request.DryRun); err != nil {
		return "", fmt.Errorf("enabling interactive authoring on %q: %w", request.Name, err)
	}

	return encodeResponse(response)
}

func encodeResponse(v any) (string, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(payload), nil
}
