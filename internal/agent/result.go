package agent

import "encoding/json"

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrorKind classifies a failed operation result.
type ErrorKind string

const (
	// credential acquisition failed, hard failure for the turn
	ErrorKindAuth ErrorKind = "auth"
	// required context fields are unset, recoverable via clarification
	ErrorKindMissingField ErrorKind = "missingField"
	// delta contradicts a confirmed field without an explicit override
	ErrorKindConflict ErrorKind = "conflict"
	// operation not declared by the routed specialist, indicates a routing bug
	ErrorKindUnknownOperation ErrorKind = "unknownOperation"
	// the external collaborator call failed
	ErrorKindUpstream ErrorKind = "upstream"
	// adapter-level deadline exceeded, safe to retry
	ErrorKindTimeout ErrorKind = "timeout"
)

// OperationResult is the uniform outcome shape returned to callers regardless
// of which specialist executed the operation.
type OperationResult struct {
	Status    Status    `json:"status"`
	Payload   string    `json:"payload,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Recoverable reports whether the caller can fix the failure by supplying
// more information or retrying, as opposed to a system fault.
func (r OperationResult) Recoverable() bool {
	switch r.ErrorKind {
	case ErrorKindMissingField, ErrorKindConflict, ErrorKindTimeout:
		return true
	}
	return false
}

func okResult(payload string) OperationResult {
	return OperationResult{Status: StatusOK, Payload: payload}
}

func errorResult(kind ErrorKind, message string) OperationResult {
	return OperationResult{Status: StatusError, ErrorKind: kind, Message: message}
}

// combineResults folds the results of a multi-invocation turn into one.
// A single result passes through unchanged; multiple payloads are combined
// into a JSON array.
func combineResults(results []OperationResult) OperationResult {
	if len(results) == 1 {
		return results[0]
	}

	payloads := make([]json.RawMessage, 0, len(results))
	for _, result := range results {
		if result.Status != StatusOK {
			result.Message = "one of the requested operations failed: " + result.Message
			return result
		}
		if json.Valid([]byte(result.Payload)) {
			payloads = append(payloads, json.RawMessage(result.Payload))
			continue
		}
		quoted, _ := json.Marshal(result.Payload)
		payloads = append(payloads, quoted)
	}

	combined, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return errorResult(ErrorKindUpstream, "combining operation results: "+err.Error())
	}

	return okResult(string(combined))
}
