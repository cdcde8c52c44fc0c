package datafactory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/datafactory/armdatafactory/v9"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

const runPollInterval = 5 * time.Second

func (s *service) createPipelineRun(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	pipelineName string,
	parameters map[string]any,
) (string, error) {
	client, err := s.createPipelinesClient(credential, subscriptionId)
	if err != nil {
		return "", err
	}

	options := &armdatafactory.PipelinesClientCreateRunOptions{}
	if len(parameters) > 0 {
		options.Parameters = parameters
	}

	response, err := client.CreateRun(ctx, resourceGroupName, factoryName, pipelineName, options)
	if err != nil {
		return "", fmt.Errorf("creating pipeline run: %w", err)
	}

	runId := convert.ToValueWithDefault(response.RunID, "")
	log.Printf("datafactory: started pipeline %s run %s", pipelineName, runId)
	return runId, nil
}

// waitForPipelineRun polls the run until it reaches a terminal status. The
// caller's context carries the deadline; there is no implicit timeout here.
func (s *service) waitForPipelineRun(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	runId string,
) (string, error) {
	client, err := armdatafactory.NewPipelineRunsClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return "", fmt.Errorf("creating PipelineRuns client: %w", err)
	}

	for {
		response, err := client.Get(ctx, resourceGroupName, factoryName, runId, nil)
		if err != nil {
			return "", fmt.Errorf("getting pipeline run: %w", err)
		}

		status := convert.ToValueWithDefault(response.Status, "")
		switch status {
		case "Succeeded", "Failed", "Cancelled":
			return status, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(runPollInterval):
		}
	}
}

func (s *service) queryActivityRuns(
	ctx context.Context,
	credential azcore.TokenCredential,
	subscriptionId string,
	resourceGroupName string,
	factoryName string,
	runId string,
) ([]ActivityResult, error) {
	client, err := armdatafactory.NewActivityRunsClient(subscriptionId, credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating ActivityRuns client: %w", err)
	}

	now := time.Now().UTC()
	response, err := client.QueryByPipelineRun(
		ctx, resourceGroupName, factoryName, runId,
		armdatafactory.RunFilterParameters{
			LastUpdatedAfter:  convert.ToPtr(now.Add(-24 * time.Hour)),
			LastUpdatedBefore: convert.ToPtr(now.Add(time.Hour)),
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("querying activity runs: %w", err)
	}

	activities := []ActivityResult{}
	for _, run := range response.Value {
		activities = append(activities, ActivityResult{
			Name:   convert.ToValueWithDefault(run.ActivityName, ""),
			Status: convert.ToValueWithDefault(run.Status, ""),
			Output: run.Output,
			Error:  run.Error,
		})
	}

	return activities, nil
}
