package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDispatcher(t *testing.T, opts ...DispatcherOption) (*Dispatcher, *fakeSpecialist, *fakeSpecialist) {
	t.Helper()

	domain := &fakeSpecialist{
		id:       "key_vault",
		keywords: []string{"key vault", "secret", "secrets"},
		required: []Field{FieldResourceGroup, FieldResourceName},
		ops:      []Operation{&fakeOperation{name: "list_secrets"}},
	}
	fallback := &fakeSpecialist{
		id:       "azure_resources",
		keywords: []string{"resource group", "resource groups"},
		required: []Field{FieldSubscriptionID},
		ops:      []Operation{&fakeOperation{name: "list_resource_groups"}},
	}

	registry, err := NewRegistry(fallback, domain)
	require.NoError(t, err)

	return NewDispatcher(registry, NewAdapter(time.Second, true), opts...), domain, fallback
}

func TestDispatcherRoutesAndCompletesTurn(t *testing.T) {
	dispatcher, domain, _ := testDispatcher(t)
	conversation := testContext()

	result := dispatcher.Handle(context.Background(),
		"list all secrets in key vault kv1 in resource group rg1", conversation)

	assert.Equal(t, StatusOK, result.Status)

	history := conversation.History()
	require.Len(t, history, 1)
	assert.Equal(t, domain.ID(), history[0].SpecialistID)
	assert.Equal(t, StateCompleted, history[0].State)
	assert.Equal(t, StatusOK, history[0].Status)
}

func TestDispatcherMissingFieldsYieldClarification(t *testing.T) {
	dispatcher, _, _ := testDispatcher(t)
	conversation := testContext()

	result := dispatcher.Handle(context.Background(), "list the secrets", conversation)

	assert.Equal(t, StatusError, result.Status)
	assert.Equal(t, ErrorKindMissingField, result.ErrorKind)
	assert.True(t, result.Recoverable())

	var payload struct {
		MissingFields []Field `json:"missingFields"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Payload), &payload))
	assert.Equal(t, []Field{FieldResourceGroup, FieldResourceName}, payload.MissingFields)
}

func TestDispatcherPreservesExtractedFieldsAcrossFailedTurn(t *testing.T) {
	dispatcher, _, _ := testDispatcher(t)
	conversation := testContext()

	// resource group arrives but the vault name is still missing
	result := dispatcher.Handle(context.Background(),
		"list the secrets in resource group rg1", conversation)
	require.Equal(t, ErrorKindMissingField, result.ErrorKind)

	snapshot := conversation.Snapshot()
	assert.Equal(t, "rg1", snapshot.ResourceGroup)

	// the follow-up only needs to supply what is missing
	result = dispatcher.Handle(context.Background(), "the secrets live in key vault kv1", conversation)
	assert.Equal(t, StatusOK, result.Status)
}

func TestDispatcherConflictIsRecoverable(t *testing.T) {
	dispatcher, _, _ := testDispatcher(t)
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1", ResourceName: "kv1"}))

	result := dispatcher.Handle(context.Background(),
		"list secrets in resource group rg2", conversation)

	assert.Equal(t, ErrorKindConflict, result.ErrorKind)
	assert.True(t, result.Recoverable())
	assert.Equal(t, "rg1", conversation.Snapshot().ResourceGroup)

	// an explicit override lands the new value
	result = dispatcher.Handle(context.Background(),
		"switch to resource group rg2 and list secrets", conversation)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, "rg2", conversation.Snapshot().ResourceGroup)
}

func TestDispatcherFallsBackWhenNothingMatches(t *testing.T) {
	dispatcher, _, fallback := testDispatcher(t)
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{SubscriptionID: "11111111-2222-3333-4444-555555555555"}))

	result := dispatcher.Handle(context.Background(), "what do I have deployed", conversation)

	assert.Equal(t, StatusOK, result.Status)
	history := conversation.History()
	require.Len(t, history, 1)
	assert.Equal(t, fallback.ID(), history[0].SpecialistID)
}

func TestDispatcherEmptyPlanAsksToRephrase(t *testing.T) {
	dispatcher, domain, _ := testDispatcher(t)
	domain.plan = func(utterance string, extraction Extraction) []Invocation { return nil }
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1", ResourceName: "kv1"}))

	result := dispatcher.Handle(context.Background(), "do secret things", conversation)

	assert.Equal(t, ErrorKindMissingField, result.ErrorKind)
	assert.Contains(t, result.Message, "rephrase")
}

func TestDispatcherMultipleInvocationsCombineIntoArray(t *testing.T) {
	dispatcher, domain, _ := testDispatcher(t)
	domain.ops = []Operation{&fakeOperation{
		name: "get_secret",
		execute: func(ctx context.Context, conversation *Context, args Args) (string, error) {
			payload, _ := json.Marshal(map[string]any{"name": args["name"]})
			return string(payload), nil
		},
	}}
	domain.plan = func(utterance string, extraction Extraction) []Invocation {
		invocations := []Invocation{}
		for _, name := range extraction.ArgsOfKind(ArgKindSecret) {
			invocations = append(invocations, Invocation{Operation: "get_secret", Args: Args{"name": name}})
		}
		return invocations
	}

	// the registry snapshot of operations is taken at construction, so
	// rebuild the dispatcher pieces after swapping them
	registry, err := NewRegistry(nil, domain)
	require.NoError(t, err)
	dispatcher = NewDispatcher(registry, NewAdapter(time.Second, true))

	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1", ResourceName: "kv1"}))

	result := dispatcher.Handle(context.Background(),
		"what's the value for secret a and secret b", conversation)

	require.Equal(t, StatusOK, result.Status)

	var combined []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Payload), &combined))
	require.Len(t, combined, 2)
	assert.Equal(t, "a", combined[0]["name"])
	assert.Equal(t, "b", combined[1]["name"])
}

type staticResolver struct {
	id    string
	err   error
	calls int
	last  string
}

func (r *staticResolver) Resolve(ctx context.Context, conversation *Context, name string) (string, error) {
	r.calls++
	r.last = name
	return r.id, r.err
}

func TestDispatcherResolvesSubscriptionHints(t *testing.T) {
	resolver := &staticResolver{id: "11111111-2222-3333-4444-555555555555"}
	dispatcher, _, _ := testDispatcher(t, WithSubscriptionResolver(resolver))
	conversation := testContext()

	dispatcher.Handle(context.Background(),
		"list resource groups in subscription contoso-prod", conversation)

	assert.Equal(t, 1, resolver.calls)
	assert.Equal(t, "contoso-prod", resolver.last)
	assert.Equal(t, resolver.id, conversation.Snapshot().SubscriptionID)
}

func TestDispatcherResolverFailureDegradesToUnset(t *testing.T) {
	resolver := &staticResolver{err: context.DeadlineExceeded}
	dispatcher, _, _ := testDispatcher(t, WithSubscriptionResolver(resolver))
	conversation := testContext()

	result := dispatcher.Handle(context.Background(),
		"list resource groups in subscription contoso-prod", conversation)

	// the hint stays unresolved and validation asks for the subscription
	assert.Equal(t, ErrorKindMissingField, result.ErrorKind)
	assert.Empty(t, conversation.Snapshot().SubscriptionID)
}
