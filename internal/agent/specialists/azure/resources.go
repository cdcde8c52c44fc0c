// Package azure implements the catch-all specialist. Requests no domain
// specialist claims land here and are answered with generic resource
// listings instead of a hard routing failure.
package azure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/pkg/azapi"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

const SpecialistID = "azure_resources"

// ResourceLister is the slice of azapi.ResourceService this specialist needs.
type ResourceLister interface {
	ListResourceGroups(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
	) ([]*azapi.Resource, error)
	ListResourceGroupResources(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
	) ([]*azapi.Resource, error)
}

type Specialist struct {
	operations []agent.Operation
}

func New(service ResourceLister) *Specialist {
	return &Specialist{
		operations: []agent.Operation{
			&ListResourceGroupsOperation{service: service},
			&ListResourcesOperation{service: service},
		},
	}
}

func (s *Specialist) ID() string {
	return SpecialistID
}

func (s *Specialist) Description() string {
	return "Answers generic Azure resource questions: list resource groups and the resources they contain."
}

func (s *Specialist) Keywords() []string {
	return []string{"resource group", "resource groups", "resources", "azure"}
}

func (s *Specialist) RequiredFields() []agent.Field {
	return []agent.Field{agent.FieldSubscriptionID}
}

func (s *Specialist) Operations() []agent.Operation {
	return s.operations
}

func (s *Specialist) Plan(utterance string, extraction agent.Extraction) []agent.Invocation {
	lower := strings.ToLower(utterance)

	if extraction.Delta.ResourceGroup != "" && !strings.Contains(lower, "resource groups") {
		return []agent.Invocation{{
			Operation: "list_resources",
			Args:      agent.Args{"resourceGroup": extraction.Delta.ResourceGroup},
		}}
	}

	return []agent.Invocation{{Operation: "list_resource_groups", Args: agent.Args{}}}
}

// ListResourceGroupsOperation lists the resource groups of the current
// subscription.
type ListResourceGroupsOperation struct {
	service ResourceLister
}

func (o *ListResourceGroupsOperation) Name() string {
	return "list_resource_groups"
}

func (o *ListResourceGroupsOperation) Description() string {
	return `List all resource groups in the current subscription.
Returns a JSON array with each group's name and location.

Input: no arguments. The subscription is taken from the conversation context.`
}

func (o *ListResourceGroupsOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "List Resource Groups",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *ListResourceGroupsOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	groups, err := o.service.ListResourceGroups(ctx, credential, snapshot.SubscriptionID)
	if err != nil {
		return "", fmt.Errorf("listing resource groups: %w", err)
	}

	payload, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding resource groups: %w", err)
	}

	return string(payload), nil
}

// ListResourcesOperation lists the resources of one resource group.
type ListResourcesOperation struct {
	service ResourceLister
}

type ListResourcesRequest struct {
	ResourceGroup string `json:"resourceGroup,omitempty"`
}

func (o *ListResourcesOperation) Name() string {
	return "list_resources"
}

func (o *ListResourcesOperation) Description() string {
	return `List all resources in a resource group of the current subscription.

Input: JSON payload with the following structure:
{
  "resourceGroup": "rg-data-prod"   // optional: defaults to the conversation's resource group
}`
}

func (o *ListResourcesOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "List Resources",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *ListResourcesOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request ListResourcesRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	resourceGroup := request.ResourceGroup
	if resourceGroup == "" {
		resourceGroup = snapshot.ResourceGroup
	}
	if resourceGroup == "" {
		return "", errors.New("list_resources requires a resource group")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	resources, err := o.service.ListResourceGroupResources(
		ctx, credential, snapshot.SubscriptionID, resourceGroup)
	if err != nil {
		return "", fmt.Errorf("listing resources in %q: %w", resourceGroup, err)
	}

	payload, err := json.MarshalIndent(resources, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding resources: %w", err)
	}

	return string(payload), nil
}
