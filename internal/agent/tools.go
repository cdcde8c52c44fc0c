package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// BoundTool adapts an Operation bound to a conversation context into a
// langchaingo tool, so specialist operations can be handed to an LLM agent
// executor unchanged. Call input is a single-line JSON object of args.
type BoundTool struct {
	op           Operation
	conversation *Context
}

func BindTool(op Operation, conversation *Context) *BoundTool {
	return &BoundTool{op: op, conversation: conversation}
}

func (t *BoundTool) Name() string {
	return t.op.Name()
}

func (t *BoundTool) Description() string {
	return t.op.Description()
}

func (t *BoundTool) Call(ctx context.Context, input string) (string, error) {
	args := Args{}
	if trimmed := strings.TrimSpace(input); trimmed != "" {
		if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
			return "", fmt.Errorf("parsing tool input: %w", err)
		}
	}

	return t.op.Execute(ctx, t.conversation, args)
}

// ToLangChainTools binds every operation of the specialist to the
// conversation and returns them as langchaingo tools.
func ToLangChainTools(sp Specialist, conversation *Context) []tools.Tool {
	ops := sp.Operations()
	bound := make([]tools.Tool, len(ops))
	for i, op := range ops {
		bound[i] = BindTool(op, conversation)
	}
	return bound
}
