// Package datafactory implements the Data Factory specialists. Linked
// services, integration runtimes, and pipeline runs are separate specialists
// sharing one parent domain: a request naming "integration runtime" routes to
// the integration runtime specialist even though both mention data factory.
package datafactory

import (
	"strconv"
	"strings"

	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	adf "github.com/wqeqwqeq/AzureAgent/pkg/datafactory"
)

const (
	LinkedServicesSpecialistID     = "adf_linked_services"
	IntegrationRuntimeSpecialistID = "adf_integration_runtime"
	PipelinesSpecialistID          = "adf_pipelines"
)

// control-plane operations always need full resource addressing
var requiredFields = []agent.Field{
	agent.FieldSubscriptionID,
	agent.FieldResourceGroup,
	agent.FieldResourceName,
}

// LinkedServicesSpecialist manages linked service definitions of a factory.
type LinkedServicesSpecialist struct {
	operations []agent.Operation
}

func NewLinkedServices(service adf.Service) *LinkedServicesSpecialist {
	return &LinkedServicesSpecialist{
		operations: []agent.Operation{
			&ListLinkedServicesOperation{service: service},
			&GetLinkedServiceOperation{service: service},
			&UpdateLinkedServiceAccountOperation{service: service},
		},
	}
}

func (s *LinkedServicesSpecialist) ID() string {
	return LinkedServicesSpecialistID
}

func (s *LinkedServicesSpecialist) Description() string {
	return "Manages Azure Data Factory linked services: list, inspect, and update connection definitions."
}

func (s *LinkedServicesSpecialist) Keywords() []string {
	return []string{"linked service", "linked services", "data factory", "connection"}
}

func (s *LinkedServicesSpecialist) RequiredFields() []agent.Field {
	return requiredFields
}

func (s *LinkedServicesSpecialist) Operations() []agent.Operation {
	return s.operations
}

func (s *LinkedServicesSpecialist) Plan(utterance string, extraction agent.Extraction) []agent.Invocation {
	lower := strings.ToLower(utterance)
	names := extraction.ArgsOfKind(agent.ArgKindLinkedService)
	hosts := extraction.ArgsOfKind(agent.ArgKindHost)

	if len(names) > 0 && len(hosts) >= 2 &&
		(strings.Contains(lower, "update") || strings.Contains(lower, "change") ||
			strings.Contains(lower, "replace") || strings.Contains(lower, "point")) {
		args := agent.Args{"name": names[0], "oldAccount": hosts[0], "newAccount": hosts[1]}
		if extraction.DryRun != nil {
			args["dryRun"] = *extraction.DryRun
		}
		return []agent.Invocation{{Operation: "update_linked_service_account", Args: args}}
	}

	if len(names) > 0 {
		return []agent.Invocation{{Operation: "get_linked_service", Args: agent.Args{"name": names[0]}}}
	}

	return []agent.Invocation{{Operation: "list_linked_services", Args: agent.Args{}}}
}

// IntegrationRuntimeSpecialist inspects and manages factory integration
// runtimes.
type IntegrationRuntimeSpecialist struct {
	operations []agent.Operation
}

func NewIntegrationRuntime(service adf.Service) *IntegrationRuntimeSpecialist {
	return &IntegrationRuntimeSpecialist{
		operations: []agent.Operation{
			&GetIntegrationRuntimeOperation{service: service},
			&GetIntegrationRuntimeStatusOperation{service: service},
			&EnableInteractiveAuthoringOperation{service: service},
		},
	}
}

func (s *IntegrationRuntimeSpecialist) ID() string {
	return IntegrationRuntimeSpecialistID
}

func (s *IntegrationRuntimeSpecialist) Description() string {
	return "Manages Azure Data Factory integration runtimes: details, status, and interactive authoring."
}

func (s *IntegrationRuntimeSpecialist) Keywords() []string {
	return []string{"integration runtime", "integration runtimes", "interactive authoring", "data factory"}
}

func (s *IntegrationRuntimeSpecialist) RequiredFields() []agent.Field {
	return requiredFields
}

func (s *IntegrationRuntimeSpecialist) Operations() []agent.Operation {
	return s.operations
}

func (s *IntegrationRuntimeSpecialist) Plan(utterance string, extraction agent.Extraction) []agent.Invocation {
	lower := strings.ToLower(utterance)
	names := extraction.ArgsOfKind(agent.ArgKindIntegrationRuntime)
	if len(names) == 0 {
		return nil
	}
	name := names[0]

	if strings.Contains(lower, "enable") || strings.Contains(lower, "interactive") {
		args := agent.Args{"name": name}
		if minutes := extraction.ArgsOfKind(agent.ArgKindMinutes); len(minutes) > 0 {
			if parsed, err := strconv.Atoi(minutes[0]); err == nil {
				args["minutes"] = parsed
			}
		}
		if extraction.DryRun != nil {
			args["dryRun"] = *extraction.DryRun
		}
		return []agent.Invocation{{Operation: "enable_interactive_authoring", Args: args}}
	}

	if strings.Contains(lower, "status") || strings.Contains(lower, "state") ||
		strings.Contains(lower, "running") {
		return []agent.Invocation{{Operation: "get_integration_runtime_status", Args: agent.Args{"name": name}}}
	}

	return []agent.Invocation{{Operation: "get_integration_runtime", Args: agent.Args{"name": name}}}
}

// PipelinesSpecialist runs factory pipelines and reports activity results.
type PipelinesSpecialist struct {
	operations []agent.Operation
}

func NewPipelines(service adf.Service) *PipelinesSpecialist {
	return &PipelinesSpecialist{
		operations: []agent.Operation{
			&RunPipelineOperation{service: service},
		},
	}
}

func (s *PipelinesSpecialist) ID() string {
	return PipelinesSpecialistID
}

func (s *PipelinesSpecialist) Description() string {
	return "Runs Azure Data Factory pipelines and fetches their activity results."
}

func (s *PipelinesSpecialist) Keywords() []string {
	return []string{"pipeline", "pipelines", "pipeline run", "trigger"}
}

func (s *PipelinesSpecialist) RequiredFields() []agent.Field {
	return requiredFields
}

func (s *PipelinesSpecialist) Operations() []agent.Operation {
	return s.operations
}

func (s *PipelinesSpecialist) Plan(utterance string, extraction agent.Extraction) []agent.Invocation {
	names := extraction.ArgsOfKind(agent.ArgKindPipeline)

	invocations := []agent.Invocation{}
	for _, name := range names {
		args := agent.Args{"name": name}
		if extraction.DryRun != nil {
			args["dryRun"] = *extraction.DryRun
		}
		invocations = append(invocations, agent.Invocation{Operation: "run_pipeline", Args: args})
	}
	return invocations
}
