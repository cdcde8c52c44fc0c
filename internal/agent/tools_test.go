package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundToolCallParsesJSONInput(t *testing.T) {
	op := &fakeOperation{name: "get_secret"}
	tool := BindTool(op, testContext())

	payload, err := tool.Call(context.Background(), `{"name": "a"}`)
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, payload)
	assert.Equal(t, "a", op.lastArgs["name"])
}

func TestBoundToolCallEmptyInput(t *testing.T) {
	op := &fakeOperation{name: "list_secrets"}
	tool := BindTool(op, testContext())

	_, err := tool.Call(context.Background(), "  ")
	require.NoError(t, err)

	assert.Empty(t, op.lastArgs)
}

func TestBoundToolCallRejectsMalformedInput(t *testing.T) {
	op := &fakeOperation{name: "get_secret"}
	tool := BindTool(op, testContext())

	_, err := tool.Call(context.Background(), "not json")

	assert.ErrorContains(t, err, "parsing tool input")
	assert.Zero(t, op.callCount)
}

func TestToLangChainToolsBindsEveryOperation(t *testing.T) {
	sp := &fakeSpecialist{
		id: "key_vault",
		ops: []Operation{
			&fakeOperation{name: "list_secrets"},
			&fakeOperation{name: "get_secret"},
			&fakeOperation{name: "set_secret", mutating: true},
		},
	}

	bound := ToLangChainTools(sp, testContext())

	require.Len(t, bound, 3)
	assert.Equal(t, "list_secrets", bound[0].Name())
	assert.Equal(t, "set_secret", bound[2].Name())
	assert.NotEmpty(t, bound[1].Description())
}
