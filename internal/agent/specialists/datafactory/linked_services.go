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

// ListLinkedServicesOperation lists the linked services of the targeted
// factory, optionally filtered by type.
type ListLinkedServicesOperation struct {
	service adf.Service
}

type ListLinkedServicesRequest struct {
	FilterByType string `json:"filterByType,omitempty"`
}

func (o *ListLinkedServicesOperation) Name() string {
	return "list_linked_services"
}

func (o *ListLinkedServicesOperation) Description() string {
	return `List all linked services in the targeted Azure Data Factory.
Returns a JSON array with each linked service's name and type.

Input: JSON payload with the following structure:
{
  "filterByType": "Snowflake"   // optional: only show linked services of this type
}`
}

func (o *ListLinkedServicesOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "List Linked Services",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *ListLinkedServicesOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request ListLinkedServicesRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	services, err := o.service.ListLinkedServices(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.FilterByType)
	if err != nil {
		return "", fmt.Errorf("listing linked services in factory %q: %w", snapshot.ResourceName, err)
	}

	payload, err := json.MarshalIndent(services, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding linked services: %w", err)
	}

	return string(payload), nil
}

// GetLinkedServiceOperation returns the full definition of one linked
// service.
type GetLinkedServiceOperation struct {
	service adf.Service
}

type GetLinkedServiceRequest struct {
	Name string `json:"name"`
}

func (o *GetLinkedServiceOperation) Name() string {
	return "get_linked_service"
}

func (o *GetLinkedServiceOperation) Description() string {
	return `Get the full definition of a specific linked service in the targeted Azure Data Factory.

Input: JSON payload with the following structure:
{
  "name": "SnowflakeProd"
}`
}

func (o *GetLinkedServiceOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Get Linked Service",
		ReadOnlyHint:    convert.ToPtr(true),
		DestructiveHint: convert.ToPtr(false),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *GetLinkedServiceOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request GetLinkedServiceRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" {
		return "", errors.New("get_linked_service requires a linked service name")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	service, err := o.service.GetLinkedService(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name)
	if err != nil {
		return "", fmt.Errorf("getting linked service %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(service, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding linked service: %w", err)
	}

	return string(payload), nil
}

// UpdateLinkedServiceAccountOperation rewrites the account host inside a
// linked service definition, e.g. repointing a Snowflake connection to a new
// FQDN. Dry-run by default through the adapter contract.
type UpdateLinkedServiceAccountOperation struct {
	service adf.Service
}

type UpdateLinkedServiceAccountRequest struct {
	Name       string `json:"name"`
	OldAccount string `json:"oldAccount"`
	NewAccount string `json:"newAccount"`
	DryRun     bool   `json:"dryRun"`
}

func (o *UpdateLinkedServiceAccountOperation) Name() string {
	return "update_linked_service_account"
}

func (o *UpdateLinkedServiceAccountOperation) Description() string {
	return `Replace the account FQDN inside a linked service definition of the targeted Azure Data Factory.

Input: JSON payload with the following structure:
{
  "name": "SnowflakeProd",
  "oldAccount": "acme.us-east-1.snowflakecomputing.com",
  "newAccount": "acme.eu-west-1.snowflakecomputing.com",
  "dryRun": true    // optional: report the change without applying it
}`
}

func (o *UpdateLinkedServiceAccountOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           "Update Linked Service Account",
		ReadOnlyHint:    convert.ToPtr(false),
		DestructiveHint: convert.ToPtr(true),
		IdempotentHint:  convert.ToPtr(true),
		OpenWorldHint:   convert.ToPtr(true),
	}
}

func (o *UpdateLinkedServiceAccountOperation) Execute(
	ctx context.Context, conversation *agent.Context, args agent.Args) (string, error) {
	var request UpdateLinkedServiceAccountRequest
	if err := args.Decode(&request); err != nil {
		return "", err
	}
	if request.Name == "" || request.OldAccount == "" || request.NewAccount == "" {
		return "", errors.New("update_linked_service_account requires name, oldAccount and newAccount")
	}

	credential, err := conversation.EnsureAuth(ctx)
	if err != nil {
		return "", err
	}

	snapshot := conversation.Snapshot()
	update, err := o.service.UpdateLinkedServiceAccount(
		ctx, credential,
		snapshot.SubscriptionID, snapshot.ResourceGroup, snapshot.ResourceName,
		request.Name, request.OldAccount, request.NewAccount, request.DryRun)
	if err != nil {
		return "", fmt.Errorf("updating linked service %q: %w", request.Name, err)
	}

	payload, err := json.MarshalIndent(update, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding update result: %w", err)
	}

	return string(payload), nil
}
