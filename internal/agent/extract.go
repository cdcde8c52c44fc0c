package agent

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Confidence signals how certain the extractor is about a field. It only
// informs whether the caller should ask a clarifying question; it never
// drives control flow.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// Kinds of operation arguments the extractor recognizes. Name-shaped tokens
// that parameterize an operation (two secret names, a pipeline name) are
// arguments, never the targeted resource.
const (
	ArgKindSecret             = "secret"
	ArgKindSecretValue        = "secret_value"
	ArgKindLinkedService      = "linked_service"
	ArgKindPipeline           = "pipeline"
	ArgKindIntegrationRuntime = "integration_runtime"
	ArgKindHost               = "host"
	ArgKindMinutes            = "minutes"
)

type ExtractedArg struct {
	Kind string
	Name string
}

// Extraction is the best-effort output of one pass over an utterance.
// Unknown fields stay unset; nothing here is ever guessed.
type Extraction struct {
	Delta      Delta
	Args       []ExtractedArg
	DryRun     *bool
	Confidence map[Field]Confidence
}

// ArgsOfKind returns the extracted argument names of one kind, in utterance
// order, without duplicates.
func (ex Extraction) ArgsOfKind(kind string) []string {
	names := []string{}
	seen := map[string]struct{}{}
	for _, arg := range ex.Args {
		if arg.Kind != kind {
			continue
		}
		if _, ok := seen[arg.Name]; ok {
			continue
		}
		seen[arg.Name] = struct{}{}
		names = append(names, arg.Name)
	}
	return names
}

var (
	guidPattern = regexp.MustCompile(
		`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
	subscriptionNamePattern = regexp.MustCompile(`(?i)\bsubscription\s+(?:named\s+|called\s+)?([\w.-]+)`)
	resourceGroupPattern    = regexp.MustCompile(`(?i)\bresource\s+group\s+(?:named\s+|called\s+)?([\w.()-]+)`)
	keyVaultPattern         = regexp.MustCompile(`(?i)\bkey\s*vault\s+(?:named\s+|called\s+)?([\w-]+)`)
	vaultPattern            = regexp.MustCompile(`(?i)\bvault\s+(?:named\s+|called\s+)?([\w-]+)`)
	dataFactoryPattern      = regexp.MustCompile(`(?i)\bdata\s*factory\s+(?:named\s+|called\s+)?([\w-]+)`)
	factoryPattern          = regexp.MustCompile(`(?i)\bfactory\s+(?:named\s+|called\s+)?([\w-]+)`)
	secretPattern           = regexp.MustCompile(`(?i)\bsecrets?\s+(?:named\s+|called\s+)?([\w-]+)`)
	secretValuePattern      = regexp.MustCompile(`(?i)\bsecret\s+([\w-]+)\s+to\s+(\S+)`)
	linkedServicePattern    = regexp.MustCompile(`(?i)\blinked\s+services?\s+(?:named\s+|called\s+)?([\w-]+)`)
	pipelinePattern         = regexp.MustCompile(`(?i)\bpipelines?\s+(?:named\s+|called\s+)?([\w-]+)`)
	integrationRuntimePattern = regexp.MustCompile(
		`(?i)\b(?:integration\s+runtime|ir)\s+(?:named\s+|called\s+)?([\w-]+)`)
	hostPattern     = regexp.MustCompile(`\b([\w-]+(?:\.[\w-]+){2,})\b`)
	minutesPattern  = regexp.MustCompile(`(?i)\b(\d+)\s*minutes?\b`)
	overridePattern = regexp.MustCompile(`(?i)\b(?:switch\s+to|change\s+to|instead|now\s+use)\b`)
	dryRunPattern   = regexp.MustCompile(
		`(?i)\b(?:dry[\s-]?run|simulate|without\s+(?:actually\s+)?(?:applying|changing|modifying))\b`)
	applyPattern = regexp.MustCompile(`(?i)\b(?:for\s+real|no\s+dry[\s-]?run|actually\s+(?:apply|run|update|change))\b`)
)

// Words a capture group can swallow that are grammar, not names.
var nameStopwords = map[string]struct{}{
	"in": {}, "on": {}, "at": {}, "to": {}, "of": {}, "for": {}, "the": {},
	"and": {}, "or": {}, "from": {}, "with": {}, "named": {}, "called": {},
	"is": {}, "are": {}, "all": {}, "my": {}, "that": {}, "this": {}, "it": {},
	"as": {}, "was": {}, "id": {}, "value": {}, "values": {},
}

func isNameToken(token string) bool {
	if token == "" {
		return false
	}
	_, stop := nameStopwords[strings.ToLower(token)]
	return !stop
}

// Extractor produces partial context deltas from free text. Extraction is
// strictly text-grounded and deterministic: the same utterance always yields
// the same extraction, and fields with no supporting token stay unset.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(utterance string, prior Snapshot) Extraction {
	extraction := Extraction{Confidence: map[Field]Confidence{}}

	text := strings.TrimSpace(utterance)
	if text == "" {
		return extraction
	}

	extraction.Delta.Intent = text
	extraction.Confidence[FieldIntent] = ConfidenceHigh
	extraction.Delta.Override = overridePattern.MatchString(text)

	e.extractSubscription(text, &extraction)
	e.extractResourceGroup(text, &extraction)
	e.extractResourceName(text, &extraction)
	e.extractArgs(text, &extraction)

	if dryRunPattern.MatchString(text) {
		enabled := true
		extraction.DryRun = &enabled
	} else if applyPattern.MatchString(text) {
		disabled := false
		extraction.DryRun = &disabled
	}

	return extraction
}

func (e *Extractor) extractSubscription(text string, extraction *Extraction) {
	// GUID-shaped identifiers are taken verbatim.
	if match := guidPattern.FindString(text); match != "" {
		if _, err := uuid.Parse(match); err == nil {
			extraction.Delta.SubscriptionID = match
			extraction.Confidence[FieldSubscriptionID] = ConfidenceHigh
			return
		}
	}

	// A human-readable name is only a hint; an external lookup resolves it.
	if match := subscriptionNamePattern.FindStringSubmatch(text); match != nil && isNameToken(match[1]) {
		extraction.Delta.SubscriptionHint = match[1]
		extraction.Confidence[FieldSubscriptionID] = ConfidenceLow
	}
}

func (e *Extractor) extractResourceGroup(text string, extraction *Extraction) {
	if match := resourceGroupPattern.FindStringSubmatch(text); match != nil && isNameToken(match[1]) {
		extraction.Delta.ResourceGroup = match[1]
		extraction.Confidence[FieldResourceGroup] = ConfidenceHigh
	}
}

// extractResourceName finds the targeted resource. Kind-prefixed mentions
// ("key vault kv1", "data factory adf-prod") are the only accepted evidence.
// Distinct candidates of different kinds demote confidence but keep the first.
func (e *Extractor) extractResourceName(text string, extraction *Extraction) {
	candidates := []string{}
	for _, pattern := range []*regexp.Regexp{keyVaultPattern, dataFactoryPattern, vaultPattern, factoryPattern} {
		if match := pattern.FindStringSubmatch(text); match != nil && isNameToken(match[1]) {
			candidates = append(candidates, match[1])
		}
	}
	if len(candidates) == 0 {
		return
	}

	extraction.Delta.ResourceName = candidates[0]
	extraction.Confidence[FieldResourceName] = ConfidenceHigh
	for _, candidate := range candidates[1:] {
		if candidate != candidates[0] {
			extraction.Confidence[FieldResourceName] = ConfidenceLow
			break
		}
	}
}

func (e *Extractor) extractArgs(text string, extraction *Extraction) {
	appendArgs := func(kind string, pattern *regexp.Regexp) {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if isNameToken(match[1]) {
				extraction.Args = append(extraction.Args, ExtractedArg{Kind: kind, Name: match[1]})
			}
		}
	}

	appendArgs(ArgKindSecret, secretPattern)
	appendArgs(ArgKindLinkedService, linkedServicePattern)
	appendArgs(ArgKindPipeline, pipelinePattern)
	appendArgs(ArgKindIntegrationRuntime, integrationRuntimePattern)
	appendArgs(ArgKindHost, hostPattern)

	if match := secretValuePattern.FindStringSubmatch(text); match != nil && isNameToken(match[1]) {
		extraction.Args = append(extraction.Args, ExtractedArg{Kind: ArgKindSecretValue, Name: match[2]})
	}
	if match := minutesPattern.FindStringSubmatch(text); match != nil {
		extraction.Args = append(extraction.Args, ExtractedArg{Kind: ArgKindMinutes, Name: match[1]})
	}
}
