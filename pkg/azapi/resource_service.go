package azapi

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

type Resource struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// ResourceService lists generic ARM resources. It backs the fallback
// specialist for requests no domain specialist claims.
type ResourceService struct {
	armClientOptions *arm.ClientOptions
}

func NewResourceService(armClientOptions *arm.ClientOptions) *ResourceService {
	return &ResourceService{armClientOptions: armClientOptions}
}

func (rs *ResourceService) ListResourceGroups(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
) ([]*Resource, error) {
	client, err := rs.createResourceGroupClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	groups := []*Resource{}
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing resource groups: %w", err)
		}

		for _, group := range page.ResourceGroupListResult.Value {
			groups = append(groups, &Resource{
				Id:       *group.ID,
				Name:     *group.Name,
				Type:     *group.Type,
				Location: *group.Location,
			})
		}
	}

	return groups, nil
}

func (rs *ResourceService) ListResourceGroupResources(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
) ([]*Resource, error) {
	client, err := rs.createResourcesClient(credential, subscriptionId)
	if err != nil {
		return nil, err
	}

	resources := []*Resource{}
	pager := client.NewListByResourceGroupPager(resourceGroupName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing resource group resources: %w", err)
		}

		for _, resource := range page.ResourceListResult.Value {
			resources = append(resources, &Resource{
				Id:       *resource.ID,
				Name:     *resource.Name,
				Type:     *resource.Type,
				Location: *resource.Location,
			})
		}
	}

	return resources, nil
}

func (rs *ResourceService) createResourcesClient(
	credential azcore.TokenCredential, subscriptionId string) (*armresources.Client, error) {
	client, err := armresources.NewClient(subscriptionId, credential, rs.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating Resource client: %w", err)
	}

	return client, nil
}

func (rs *ResourceService) createResourceGroupClient(
	credential azcore.TokenCredential, subscriptionId string) (*armresources.ResourceGroupsClient, error) {
	client, err := armresources.NewResourceGroupsClient(subscriptionId, credential, rs.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating ResourceGroup client: %w", err)
	}

	return client, nil
}
