package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverableKinds(t *testing.T) {
	cases := []struct {
		kind        ErrorKind
		recoverable bool
	}{
		{ErrorKindMissingField, true},
		{ErrorKindConflict, true},
		{ErrorKindTimeout, true},
		{ErrorKindAuth, false},
		{ErrorKindUnknownOperation, false},
		{ErrorKindUpstream, false},
	}

	for _, tc := range cases {
		result := errorResult(tc.kind, "boom")
		assert.Equal(t, tc.recoverable, result.Recoverable(), string(tc.kind))
	}
}

func TestCombineResultsSinglePassesThrough(t *testing.T) {
	single := okResult(`{"name":"a"}`)

	assert.Equal(t, single, combineResults([]OperationResult{single}))
}

func TestCombineResultsMultipleBecomeArray(t *testing.T) {
	combined := combineResults([]OperationResult{
		okResult(`{"name":"a"}`),
		okResult(`{"name":"b"}`),
	})

	require.Equal(t, StatusOK, combined.Status)

	var payloads []map[string]any
	require.NoError(t, json.Unmarshal([]byte(combined.Payload), &payloads))
	require.Len(t, payloads, 2)
	assert.Equal(t, "a", payloads[0]["name"])
	assert.Equal(t, "b", payloads[1]["name"])
}

func TestCombineResultsQuotesNonJSONPayloads(t *testing.T) {
	combined := combineResults([]OperationResult{
		okResult("plain text"),
		okResult(`{"name":"b"}`),
	})

	require.Equal(t, StatusOK, combined.Status)

	var payloads []any
	require.NoError(t, json.Unmarshal([]byte(combined.Payload), &payloads))
	assert.Equal(t, "plain text", payloads[0])
}

func TestCombineResultsFirstErrorWins(t *testing.T) {
	combined := combineResults([]OperationResult{
		okResult(`{"name":"a"}`),
		errorResult(ErrorKindUpstream, "vault unreachable"),
		errorResult(ErrorKindTimeout, "too slow"),
	})

	assert.Equal(t, StatusError, combined.Status)
	assert.Equal(t, ErrorKindUpstream, combined.ErrorKind)
	assert.Contains(t, combined.Message, "one of the requested operations failed")
	assert.Contains(t, combined.Message, "vault unreachable")
}
