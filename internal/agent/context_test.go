package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wqeqwqeq/AzureAgent/pkg/auth"
)

func TestContextMergeFillsUnsetFields(t *testing.T) {
	conversation := testContext()

	err := conversation.Merge(Delta{
		SubscriptionID: "11111111-2222-3333-4444-555555555555",
		ResourceGroup:  "rg1",
	})
	require.NoError(t, err)

	snapshot := conversation.Snapshot()
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", snapshot.SubscriptionID)
	assert.Equal(t, "rg1", snapshot.ResourceGroup)
	assert.Empty(t, snapshot.ResourceName)
}

func TestContextMergeEmptyDeltaNeverClears(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1", ResourceName: "kv1"}))

	require.NoError(t, conversation.Merge(Delta{}))

	snapshot := conversation.Snapshot()
	assert.Equal(t, "rg1", snapshot.ResourceGroup)
	assert.Equal(t, "kv1", snapshot.ResourceName)
}

func TestContextMergeEqualValueIsNoOp(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1"}))

	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1"}))
	assert.Equal(t, "rg1", conversation.Snapshot().ResourceGroup)
}

func TestContextMergeConflictWithoutOverride(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1"}))

	err := conversation.Merge(Delta{ResourceGroup: "rg2"})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, FieldResourceGroup, conflict.Field)
	assert.Equal(t, "rg1", conflict.Current)
	assert.Equal(t, "rg2", conflict.Proposed)

	// the stored value is untouched
	assert.Equal(t, "rg1", conversation.Snapshot().ResourceGroup)
}

func TestContextMergeOverrideReplaces(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1"}))

	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg2", Override: true}))
	assert.Equal(t, "rg2", conversation.Snapshot().ResourceGroup)
}

func TestContextMergeIntentFirstWins(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{Intent: "list secrets"}))

	// a new phrasing is not a contradiction
	require.NoError(t, conversation.Merge(Delta{Intent: "show me those secrets"}))
	assert.Equal(t, "list secrets", conversation.Snapshot().Intent)

	require.NoError(t, conversation.Merge(Delta{Intent: "run the pipeline", Override: true}))
	assert.Equal(t, "run the pipeline", conversation.Snapshot().Intent)
}

func TestContextValidateReturnsExactlyMissingFields(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{ResourceGroup: "rg1"}))

	required := []Field{FieldSubscriptionID, FieldResourceGroup, FieldResourceName}
	err := conversation.Validate(required)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []Field{FieldSubscriptionID, FieldResourceName}, missing.Missing)
}

func TestContextValidateAllSet(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{
		SubscriptionID: "11111111-2222-3333-4444-555555555555",
		ResourceGroup:  "rg1",
		ResourceName:   "kv1",
	}))

	assert.NoError(t, conversation.Validate([]Field{
		FieldSubscriptionID, FieldResourceGroup, FieldResourceName,
	}))
}

func TestContextEnsureAuthCachesCredential(t *testing.T) {
	provider := &countingProvider{}
	conversation := NewContext(provider)

	first, err := conversation.EnsureAuth(context.Background())
	require.NoError(t, err)
	second, err := conversation.EnsureAuth(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, provider.calls)
}

func TestContextEnsureAuthNoProvider(t *testing.T) {
	conversation := NewContext(nil)

	_, err := conversation.EnsureAuth(context.Background())

	var authErr *auth.Error
	require.ErrorAs(t, err, &authErr)
}

func TestContextEnsureAuthWrapsProviderFailure(t *testing.T) {
	provider := &countingProvider{err: errors.New("no tenant configured")}
	conversation := NewContext(provider)

	_, err := conversation.EnsureAuth(context.Background())

	var authErr *auth.Error
	require.ErrorAs(t, err, &authErr)
	assert.ErrorContains(t, err, "no tenant configured")

	// a failed attempt caches nothing
	_, err = conversation.EnsureAuth(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 2, provider.calls)
}

func TestSnapshotSerializesOnlyAddressingFields(t *testing.T) {
	conversation := testContext()
	require.NoError(t, conversation.Merge(Delta{
		SubscriptionID: "11111111-2222-3333-4444-555555555555",
		ResourceGroup:  "rg1",
		ResourceName:   "kv1",
		Intent:         "list secrets",
	}))
	_, err := conversation.EnsureAuth(context.Background())
	require.NoError(t, err)

	encoded, err := json.Marshal(conversation.Snapshot())
	require.NoError(t, err)

	fields := map[string]any{}
	require.NoError(t, json.Unmarshal(encoded, &fields))
	assert.ElementsMatch(t,
		[]string{"subscriptionId", "resourceGroupName", "resourceName", "intent"},
		keysOf(fields))
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func TestContextHistoryAppendsTurns(t *testing.T) {
	conversation := testContext()

	conversation.AppendTurn(Turn{Utterance: "first", SpecialistID: "key_vault", State: StateCompleted, Status: StatusOK})
	conversation.AppendTurn(Turn{Utterance: "second", State: StateFailed, Status: StatusError})

	history := conversation.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Utterance)
	assert.Equal(t, StateFailed, history[1].State)

	// mutating the copy leaves the context untouched
	history[0].Utterance = "changed"
	assert.Equal(t, "first", conversation.History()[0].Utterance)
}
