package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// State names a stage of the dispatch pipeline. Within one conversation the
// stages are strictly ordered; later stages depend on context mutations made
// by earlier ones.
type State string

const (
	StateReceived    State = "received"
	StateExtracting  State = "extracting"
	StateClassifying State = "classifying"
	StateValidating  State = "validating"
	StateDispatched  State = "dispatched"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// SubscriptionResolver resolves a human-readable subscription name hint to a
// subscription id, typically against the accounts the credential can see.
type SubscriptionResolver interface {
	Resolve(ctx context.Context, conversation *Context, name string) (string, error)
}

// Dispatcher routes an utterance to a specialist: extract, merge, classify,
// validate, dispatch. Extraction and classification never fail a turn; they
// degrade to unset fields and the fallback specialist. Only auth failures and
// undeclared operations halt a turn outright.
type Dispatcher struct {
	extractor *Extractor
	registry  *Registry
	adapter   *Adapter
	resolver  SubscriptionResolver
}

type DispatcherOption func(*Dispatcher)

// WithSubscriptionResolver wires the external lookup used to turn
// subscription name hints into ids.
func WithSubscriptionResolver(resolver SubscriptionResolver) DispatcherOption {
	return func(d *Dispatcher) {
		d.resolver = resolver
	}
}

func NewDispatcher(registry *Registry, adapter *Adapter, opts ...DispatcherOption) *Dispatcher {
	dispatcher := &Dispatcher{
		extractor: NewExtractor(),
		registry:  registry,
		adapter:   adapter,
	}
	for _, opt := range opts {
		opt(dispatcher)
	}
	return dispatcher
}

// Handle is the single inbound boundary of the core. It processes one
// utterance against the shared conversation context and returns a uniform
// result. The context persists regardless of outcome: a failed turn never
// rolls back previously confirmed fields.
func (d *Dispatcher) Handle(ctx context.Context, utterance string, conversation *Context) OperationResult {
	state := StateReceived
	log.Printf("dispatcher: %s", state)

	result, specialistID := d.handle(ctx, utterance, conversation, &state)

	conversation.AppendTurn(Turn{
		Utterance:    utterance,
		SpecialistID: specialistID,
		State:        state,
		Status:       result.Status,
	})

	return result
}

func (d *Dispatcher) handle(
	ctx context.Context,
	utterance string,
	conversation *Context,
	state *State,
) (OperationResult, string) {
	transition(state, StateExtracting)
	extraction := d.extractor.Extract(utterance, conversation.Snapshot())
	d.resolveSubscriptionHint(ctx, conversation, &extraction)

	if err := conversation.Merge(extraction.Delta); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			transition(state, StateFailed)
			return errorResult(ErrorKindConflict, conflict.Error()), ""
		}
		transition(state, StateFailed)
		return errorResult(ErrorKindUpstream, err.Error()), ""
	}

	transition(state, StateClassifying)
	sp := d.classify(utterance)
	log.Printf("dispatcher: routed to %s", sp.ID())

	transition(state, StateValidating)
	if err := conversation.Validate(sp.RequiredFields()); err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			transition(state, StateFailed)
			return clarificationResult(missing), sp.ID()
		}
		transition(state, StateFailed)
		return errorResult(ErrorKindUpstream, err.Error()), sp.ID()
	}

	transition(state, StateDispatched)
	invocations := sp.Plan(utterance, extraction)
	if len(invocations) == 0 {
		transition(state, StateFailed)
		return errorResult(ErrorKindMissingField,
			fmt.Sprintf("could not map the request onto an operation of %s; please rephrase", sp.ID())), sp.ID()
	}

	results := make([]OperationResult, 0, len(invocations))
	for _, invocation := range invocations {
		result := d.adapter.Invoke(ctx, sp, invocation, conversation)
		results = append(results, result)

		// hard failures halt the turn; everything else is reported as-is
		if result.Status == StatusError &&
			(result.ErrorKind == ErrorKindAuth || result.ErrorKind == ErrorKindUnknownOperation) {
			transition(state, StateFailed)
			return result, sp.ID()
		}
	}

	combined := combineResults(results)
	if combined.Status == StatusOK {
		transition(state, StateCompleted)
	} else {
		transition(state, StateFailed)
	}

	return combined, sp.ID()
}

// resolveSubscriptionHint turns a subscription name hint into an id through
// the external lookup. Resolution failures degrade to an unset field.
func (d *Dispatcher) resolveSubscriptionHint(ctx context.Context, conversation *Context, extraction *Extraction) {
	hint := extraction.Delta.SubscriptionHint
	if hint == "" || extraction.Delta.SubscriptionID != "" || d.resolver == nil {
		return
	}

	id, err := d.resolver.Resolve(ctx, conversation, hint)
	if err != nil {
		log.Printf("dispatcher: could not resolve subscription name %q: %v", hint, err)
		return
	}
	extraction.Delta.SubscriptionID = id
	extraction.Confidence[FieldSubscriptionID] = ConfidenceHigh
}

func (d *Dispatcher) classify(utterance string) Specialist {
	matches := d.registry.Match(utterance)
	if len(matches) == 0 {
		return d.registry.Fallback()
	}
	return matches[0]
}

func clarificationResult(missing *MissingFieldError) OperationResult {
	payload, _ := json.Marshal(map[string]any{"missingFields": missing.Missing})
	result := errorResult(ErrorKindMissingField,
		"need more info: "+missing.Error())
	result.Payload = string(payload)
	return result
}

func transition(state *State, next State) {
	log.Printf("dispatcher: %s -> %s", *state, next)
	*state = next
}
