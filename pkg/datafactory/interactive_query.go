package datafactory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

const interactiveQueryAPIVersion = "2018-06-01"

// enableInteractiveQuery calls the enableInteractiveQuery action on a managed
// integration runtime. The generated armdatafactory clients do not cover this
// endpoint, so the request goes through an arm.Client pipeline directly.
func (s *service) enableInteractiveQuery(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	integrationRuntimeName string,
	minutes int,
) error {
	client, err := arm.NewClient("datafactory.interactiveQuery", "v9.1.0", credential, s.armClientOptions)
	if err != nil {
		return fmt.Errorf("creating interactive query client: %w", err)
	}

	urlPath := fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/Microsoft.DataFactory/factories/%s"+
			"/integrationRuntimes/%s/enableInteractiveQuery",
		url.PathEscape(subscriptionId),
		url.PathEscape(resourceGroupName),
		url.PathEscape(factoryName),
		url.PathEscape(integrationRuntimeName),
	)

	req, err := runtime.NewRequest(ctx, http.MethodPost, runtime.JoinPaths(client.Endpoint(), urlPath))
	if err != nil {
		return fmt.Errorf("building interactive query request: %w", err)
	}

	query := req.Raw().URL.Query()
	query.Set("api-version", interactiveQueryAPIVersion)
	req.Raw().URL.RawQuery = query.Encode()

	body := map[string]int{"autoTerminationMinutes": minutes}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return fmt.Errorf("encoding interactive query request: %w", err)
	}

	resp, err := client.Pipeline().Do(req)
	if err != nil {
		return fmt.Errorf("enabling interactive authoring: %w", err)
	}
	defer resp.Body.Close()

	if !runtime.HasStatusCode(resp, http.StatusOK, http.StatusAccepted) {
		return runtime.NewResponseError(resp)
	}

	return nil
}
