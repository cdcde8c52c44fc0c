package datafactory

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
	adf "github.com/wqeqwqeq/AzureAgent/pkg/datafactory"
)

// RunPipelineOperation starts a pipeline run, waits for it to finish and
// returns the activity results. The adapter deadline bounds the wait.
type RunPipelineOperation struct {
	service adf.Service
}

type RunPipelineRequest struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters,omitempty"`
	DryRun     bool           `json:"dryRun"`
}

func (o *RunPipelineOperation) Name() string {
	return "run_pipeline"
}

func (o *RunPipelineOperation) Description() string {
	return `Run a pipeline in the targeted Azure Data Factory, wait for completion, and return activity results.

Input: JSON payload with the following structure:
{
  "name": "nightly-load",
  "parameters": {"window": "2024-01-01"},   // optional: pipeline parameters
  "dryRun": true                            // optional: validate without starting a run
}`
}

func (o *RunPipelineOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Run Pipeline",
		ReadOnlyHint:    convert.ToPtr(false),
		DestructiveHint: convert.ToPtr(true),
		IdempotentHint:  convert.ToPtr(false),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *RunPipelineOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request RunPipelineRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("run_pipeline requires a pipeline name")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	result, err := o.service.RunPipeline(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name, request.Parameters, request.DryRun)
	if err != nil {
		return "", fmt.Errorf("running pipeline %q: %w", request.Name, err)
	}

	return encodeResponse(result)
}
