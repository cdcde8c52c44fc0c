// Package specialists wires every domain specialist to its backing Azure
// service and exposes them for registry construction.
package specialists

import (
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/internal/agent/specialists/azure"
	"github.com/wqeqwqeq/AzureAgent/internal/agent/specialists/datafactory"
	"github.com/wqeqwqeq/AzureAgent/internal/agent/specialists/keyvault"
	"github.com/wqeqwqeq/AzureAgent/pkg/azapi"
	adf "github.com/wqeqwqeq/AzureAgent/pkg/datafactory"
	kv "github.com/wqeqwqeq/AzureAgent/pkg/keyvault"
)

// Load builds the domain specialists and the catch-all fallback with default
// client options. Declaration order matters: it is the registry tie-break.
func Load() (fallback agent.Specialist, domain []agent.Specialist) {
	keyVaultService := kv.NewService(nil, nil)
	dataFactoryService := adf.NewService(nil)
	resourceService := azapi.NewResourceService(nil)

	domain = []agent.Specialist{
		keyvault.New(keyVaultService),
		datafactory.NewLinkedServices(dataFactoryService),
		datafactory.NewIntegrationRuntime(dataFactoryService),
		datafactory.NewPipelines(dataFactoryService),
	}

	return azure.New(resourceService), domain
}
