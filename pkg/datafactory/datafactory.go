package datafactory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/datafactory/armdatafactory/v9"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

// Service exposes the data factory operations the agent needs. The credential
// is the conversation's shared auth handle, passed explicitly on every call.
// Mutating operations take a dryRun flag and must return the same result shape
// in simulate-only mode.
type Service interface {
	ListLinkedServices(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		filterByType string,
	) ([]*LinkedService, error)
	GetLinkedService(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		linkedServiceName string,
	) (*LinkedService, error)
	UpdateLinkedServiceAccount(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		linkedServiceName string,
		oldaccount string,
		newAccount string,
		dryRun bool,
	) (*LinkedServiceUpdate, error)
	GetIntegrationRuntime(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		integrationRuntimeName string,
	) (*IntegrationRuntime, error)
	GetIntegrationRuntimeStatus(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		integrationRuntimeName string,
	) (*IntegrationRuntimeStatus, error)
	EnableInteractiveAuthoring(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		integrationRuntimeName string,
		minutes int,
		dryRun bool,
	) error
	RunPipeline(
		ctx context.Context,
		credential azcore.TokenCredential,
		subscriptionId string,
		resourceGroupName string,
		factoryName string,
		pipelineName string,
		parameters map[string]any,
		dryRun bool,
	) (*PipelineRunResult, error)
}

type service struct {
	armClientOptions *arm.ClientOptions
}

// NewService creates a new data factory service
func NewService(armClientOptions *arm.ClientOptions) Service {
	return &service{armClientOptions: armClientOptions}
}

func (s *service) ListLinkedServices(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	filterByType string,
) ([]*LinkedService, error) {
	client, err := s.createLinkedServicesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	services := []*LinkedService{}
	pager := client.NewListByFactoryPager(resourceGroupName, factoryName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing linked services: %w", err)
		}

		for _, resource := range page.Value {
			ls := flattenLinkedService(resource)
			if filterByType != "" && !strings.EqualFold(ls.Type, filterByType) {
				continue
			}
			services = append(services, ls)
		}
	}

	return services, nil
}

func (s *service) GetLinkedService(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	linkedServiceName string,
) (*LinkedService, error) {
	client, err := s.createLinkedServicesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.Get(ctx, resourceGroupName, factoryName, linkedServiceName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting linked service: %w", err)
	}

	ls := flattenLinkedService(&response.LinkedServiceResource)
	definition, err := linkedServiceDefinition(&response.LinkedServiceResource)
	if err != nil {
		return nil, err
	}
	ls.Definition = definition

	return ls, nil
}

func (s *service) UpdateLinkedServiceAccount(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	linkedServiceName string,
	oldAccount string,
	newAccount string,
	dryRun bool,
) (*LinkedServiceUpdate, error) {
	client, err := s.createLinkedServicesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.Get(ctx, resourceGroupName, factoryName, linkedServiceName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting linked service: %w", err)
	}

	document, err := json.Marshal(response.LinkedServiceResource.Properties)
	if err != nil {
		return nil, fmt.Errorf("encoding linked service definition: %w", err)
	}

	update := &LinkedServiceUpdate{
		Name:     linkedServiceName,
		OldValue: oldAccount,
		NewValue: newAccount,
		Changed:  strings.Contains(string(document), oldAccount),
		DryRun:   dryRun,
	}

	if dryRun || !update.Changed {
		return update, nil
	}

	updated := strings.ReplaceAll(string(document), oldAccount, newAccount)

	var properties armdatafactory.LinkedServiceResource
	wrapper := fmt.Sprintf(`{"properties":%s}`, updated)
	if err := json.Unmarshal([]byte(wrapper), &properties); err != nil {
		return nil, fmt.Errorf("decoding updated linked service definition: %w", err)
	}

	_, err = client.CreateOrUpdate(
		ctx, resourceGroupName, factoryName, linkedServiceName,
		armdatafactory.LinkedServiceResource{Properties: properties.Properties}, nil)
	if err != nil {
		return nil, fmt.Errorf("updating linked service: %w", err)
	}

	return update, nil
}

func (s *service) GetIntegrationRuntime(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	integrationRuntimeName string,
) (*IntegrationRuntime, error) {
	client, err := s.createIntegrationRuntimesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.Get(ctx, resourceGroupName, factoryName, integrationRuntimeName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting integration runtime: %w", err)
	}

	runtimeType := ""
	if response.Properties != nil {
		runtimeType = string(convert.ToValueWithDefault(
			response.Properties.GetIntegrationRuntime().Type, ""))
	}

	return &IntegrationRuntime{
		Id:   convert.ToValueWithDefault(response.ID, ""),
		Name: convert.ToValueWithDefault(response.Name, integrationRuntimeName),
		Type: runtimeType,
	}, nil
}

func (s *service) GetIntegrationRuntimeStatus(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	integrationRuntimeName string,
) (*IntegrationRuntimeStatus, error) {
	client, err := s.createIntegrationRuntimesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	response, err := client.GetStatus(ctx, resourceGroupName, factoryName, integrationRuntimeName, nil)
	if err != nil {
		return nil, fmt.Errorf("getting integration runtime status: %w", err)
	}

	status := &IntegrationRuntimeStatus{
		Name: convert.ToValueWithDefault(response.Name, integrationRuntimeName),
	}
	if response.Properties != nil {
		status.State = string(convert.ToValueWithDefault(
			response.Properties.GetIntegrationRuntimeStatus().State, ""))
		status.InteractiveAuthoringEnabled = interactiveQueryEnabled(response.Properties)
	}

	return status, nil
}

func (s *service) EnableInteractiveAuthoring(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	integrationRuntimeName string,
	minutes int,
	dryRun bool,
) error {
	if dryRun {
		return nil
	}

	return s.enableInteractiveQuery(
		ctx, credential, subscriptionId, resourceGroupName, factoryName, integrationRuntimeName, minutes)
}

func (s *service) RunPipeline(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	pipelineName string,
	parameters map[string]any,
	dryRun bool,
) (*PipelineRunResult, error) {
	if dryRun {
		// Simulate-only: validate the pipeline exists, create no run.
		pipelinesClient, err := s.createPipelinesClient(credential, subscriptionId)
		if err != nil {
			return nil, err
		}
		if _, err := pipelinesClient.Get(ctx, resourceGroupName, factoryName, pipelineName, nil); err != nil {
			return nil, fmt.Errorf("getting pipeline: %w", err)
		}
		return &PipelineRunResult{Status: "NotStarted", DryRun: true}, nil
	}

	runId, err := s.createPipelineRun(
		ctx, credential, subscriptionId, resourceGroupName, factoryName, pipelineName, parameters)
	if err != nil {
		return nil, err
	}

	status, err := s.waitForPipelineRun(ctx, credential, subscriptionId, resourceGroupName, factoryName, runId)
	if err != nil {
		return nil, err
	}

	activities, err := s.queryActivityRuns(ctx, credential, subscriptionId, resourceGroupName, factoryName, runId)
	if err != nil {
		return nil, err
	}

	return &PipelineRunResult{
		RunId:      runId,
		Status:     status,
		Activities: activities,
	}, nil
}

func flattenLinkedService(resource *armdatafactory.LinkedServiceResource) *LinkedService {
	ls := &LinkedService{
		Id:   convert.ToValueWithDefault(resource.ID, ""),
		Name: convert.ToValueWithDefault(resource.Name, ""),
	}
	if resource.Properties != nil {
		ls.Type = convert.ToValueWithDefault(resource.Properties.GetLinkedService().Type, "")
	}
	return ls
}

func linkedServiceDefinition(resource *armdatafactory.LinkedServiceResource) (map[string]any, error) {
	document, err := json.Marshal(resource.Properties)
	if err != nil {
		return nil, fmt.Errorf("encoding linked service definition: %w", err)
	}

	var definition map[string]any
	if err := json.Unmarshal(document, &definition); err != nil {
		return nil, fmt.Errorf("decoding linked service definition: %w", err)
	}

	return definition, nil
}

// interactiveQueryEnabled digs the interactiveQuery status out of the raw
// managed runtime status document. The generated models do not surface it.
func interactiveQueryEnabled(properties armdatafactory.IntegrationRuntimeStatusClassification) bool {
	document, err := json.Marshal(properties)
	if err != nil {
		return false
	}

	var status struct {
		TypeProperties struct {
			InteractiveQuery struct {
				Status string `json:"status"`
			} `json:"interactiveQuery"`
		} `json:"typeProperties"`
	}
	if err := json.Unmarshal(document, &status); err != nil {
		return false
	}

	return strings.EqualFold(status.TypeProperties.InteractiveQuery.Status, "Enabled")
}

func (s *service) createLinkedServicesClient(
	credential azcore.TokenCredential, subscriptionId string) (*armdatafactory.LinkedServicesClient, error) {
	client, err := armdatafactory.NewLinkedServicesClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating LinkedServices client: %w", err)
	}

	return client, nil
}

func (s *service) createIntegrationRuntimesClient(
	credential azcore.TokenCredential, subscriptionId string) (*armdatafactory.IntegrationRuntimesClient, error) {
	client, err := armdatafactory.NewIntegrationRuntimesClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating IntegrationRuntimes client: %w", err)
	}

	return client, nil
}

func (s *service) createPipelinesClient(
	credential azcore.TokenCredential, subscriptionId string) (*armdatafactory.PipelinesClient, error) {
	client, err := armdatafactory.NewPipelinesClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating Pipelines client: %w", err)
	}

	return client, nil
}
