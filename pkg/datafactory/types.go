package datafactory

// LinkedService is a flattened view of a data factory linked service.
// Definition carries the raw resource document; connection secrets inside it
// stay server-side references and are never resolved here.
type LinkedService struct {
	Id         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Definition map[string]any `json:"definition,omitempty"`
}

// LinkedServiceUpdate describes an applied or simulated linked service change.
// The shape is identical for dry-run and real updates.
type LinkedServiceUpdate struct {
	Name     string `json:"name"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
	Changed  bool   `json:"changed"`
	DryRun   bool   `json:"dryRun"`
}

type IntegrationRuntime struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // Managed or SelfHosted
}

type IntegrationRuntimeStatus struct {
	Name                        string `json:"name"`
	State                       string `json:"state"`
	InteractiveAuthoringEnabled bool   `json:"interactiveAuthoringEnabled"`
}

type ActivityResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Output any    `json:"output,omitempty"`
	Error  any    `json:"error,omitempty"`
}

// PipelineRunResult is returned for both real and simulated pipeline runs.
type PipelineRunResult struct {
	RunId      string           `json:"runId"`
	Status     string           `json:"status"`
	DryRun     bool             `json:"dryRun"`
	Activities []ActivityResult `json:"activities,omitempty"`
}
