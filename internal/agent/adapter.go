package agent

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/wqeqwqeq/AzureAgent/pkg/auth"
)

// Adapter normalizes specialist operations into the uniform call/result
// contract. It authenticates the shared context before every invocation,
// enforces the dry-run contract on mutating operations, and bounds every
// call with an explicit deadline so an unresponsive collaborator surfaces as
// a Timeout result instead of hanging.
type Adapter struct {
	timeout       time.Duration
	dryRunDefault bool
}

func NewAdapter(timeout time.Duration, dryRunDefault bool) *Adapter {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Adapter{timeout: timeout, dryRunDefault: dryRunDefault}
}

// Invoke executes one invocation against the routed specialist. The shared
// conversation context is passed through unchanged; retries are the
// collaborator's business, so from the context's perspective an invocation
// merges nothing and is idempotent.
func (a *Adapter) Invoke(
	ctx context.Context,
	sp Specialist,
	invocation Invocation,
	conversation *Context,
) OperationResult {
	op, ok := findOperation(sp, invocation.Operation)
	if !ok {
		err := &UnknownOperationError{SpecialistID: sp.ID(), Operation: invocation.Operation}
		return errorResult(ErrorKindUnknownOperation, err.Error())
	}

	if _, err := conversation.EnsureAuth(ctx); err != nil {
		return errorResult(ErrorKindAuth, err.Error())
	}

	args := invocation.Args.clone()
	if args == nil {
		args = Args{}
	}
	if IsMutating(op) {
		if _, set := args["dryRun"]; !set {
			args["dryRun"] = a.dryRunDefault
		}
	}

	log.Printf("adapter: invoking %s.%s", sp.ID(), op.Name())
	payload, err := a.execute(ctx, op, conversation, args)
	if err != nil {
		return classifyError(err)
	}

	return okResult(payload)
}

// execute runs the operation under the adapter deadline. The collaborator is
// expected to honor ctx; the goroutine/select pair guarantees the boundary
// even when it does not.
func (a *Adapter) execute(
	ctx context.Context,
	op Operation,
	conversation *Context,
	args Args,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		payload string
		err     error
	}

	done := make(chan outcome, 1)
	go func() {
		payload, err := op.Execute(ctx, conversation, args)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case result := <-done:
		return result.payload, result.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func classifyError(err error) OperationResult {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return errorResult(ErrorKindAuth, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errorResult(ErrorKindTimeout, "operation exceeded its deadline: "+err.Error())
	}
	return errorResult(ErrorKindUpstream, err.Error())
}

func findOperation(sp Specialist, name string) (Operation, bool) {
	for _, op := range sp.Operations() {
		if op.Name() == name {
			return op, true
		}
	}
	return nil, false
}
