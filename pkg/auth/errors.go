package auth

import "fmt"

const loginHint = "run `az login` (or set AZURE_TENANT_ID/AZURE_CLIENT_ID credentials) and try again"

// Error indicates that a credential could not be acquired. It always carries
// a remediation hint; it never carries token material.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %s, %s", e.Reason, e.Err, loginHint)
	}
	return fmt.Sprintf("authentication failed: %s, %s", e.Reason, loginHint)
}

func (e *Error) Unwrap() error {
	return e.Err
}
