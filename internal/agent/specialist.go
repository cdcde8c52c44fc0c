package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Args carries the named inputs of one operation invocation.
type Args map[string]any

// Decode unmarshals the args into a typed request struct.
func (a Args) Decode(v any) error {
	encoded, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding operation args: %w", err)
	}
	if err := json.Unmarshal(encoded, v); err != nil {
		return fmt.Errorf("decoding operation args: %w", err)
	}
	return nil
}

func (a Args) clone() Args {
	cloned := make(Args, len(a))
	for key, value := range a {
		cloned[key] = value
	}
	return cloned
}

// Invocation names one operation of the routed specialist plus its args.
type Invocation struct {
	Operation string
	Args      Args
}

// Operation is a single capability a specialist exposes. Annotations carry
// MCP-style behavior hints; an operation whose DestructiveHint is set is
// mutating and subject to the dry-run contract enforced by the adapter.
// The conversation context is threaded through Execute explicitly; operations
// must not fork a private copy of it.
type Operation interface {
	Name() string
	Description() string
	Annotations() mcp.ToolAnnotation
	Execute(ctx context.Context, conversation *Context, args Args) (string, error)
}

// Specialist is a domain handler: declared contract (keywords, required
// context fields, operations) plus a deterministic planner that maps an
// utterance onto concrete invocations.
type Specialist interface {
	ID() string
	Description() string
	Keywords() []string
	RequiredFields() []Field
	Operations() []Operation
	Plan(utterance string, extraction Extraction) []Invocation
}

// IsMutating reports whether the operation's annotations mark it as mutating.
func IsMutating(op Operation) bool {
	hint := op.Annotations().DestructiveHint
	return hint != nil && *hint
}
