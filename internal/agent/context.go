package agent

import (
	"context"
	"errors"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/wqeqwqeq/AzureAgent/pkg/auth"
)

// Field names a context attribute a specialist can declare as required.
type Field string

const (
	FieldSubscriptionID Field = "subscription_id"
	FieldResourceGroup  Field = "resource_group_name"
	FieldResourceName   Field = "resource_name"
	FieldIntent         Field = "intent"
)

// AuthProvider acquires the credential backing a conversation.
type AuthProvider interface {
	Authenticate(ctx context.Context) (azcore.TokenCredential, error)
}

// AuthProviderFunc adapts a function to the AuthProvider interface.
type AuthProviderFunc func(ctx context.Context) (azcore.TokenCredential, error)

func (f AuthProviderFunc) Authenticate(ctx context.Context) (azcore.TokenCredential, error) {
	return f(ctx)
}

// Context is the mutable record of resource-addressing fields shared by
// reference across the dispatcher and every specialist invoked during a
// conversation. Lifetime is the conversation session; nothing is persisted.
//
// Fields fill in monotonically: once set, a field changes only through a
// delta carrying the explicit override flag. The auth handle is lazily
// acquired, cached for the session, and never serialized or logged.
type Context struct {
	mu sync.Mutex

	subscriptionID string
	resourceGroup  string
	resourceName   string
	intent         string

	provider   AuthProvider
	credential azcore.TokenCredential

	history []Turn
}

// Turn records one completed dispatch for extraction continuity.
type Turn struct {
	Utterance    string
	SpecialistID string
	State        State
	Status       Status
}

// Snapshot is a read-only copy of the addressing fields, safe to log and
// serialize. It deliberately excludes the auth handle.
type Snapshot struct {
	SubscriptionID string `json:"subscriptionId,omitempty"`
	ResourceGroup  string `json:"resourceGroupName,omitempty"`
	ResourceName   string `json:"resourceName,omitempty"`
	Intent         string `json:"intent,omitempty"`
}

// Delta is a partial update produced by the field extractor. Empty strings
// mean "not extracted", never "clear the field". SubscriptionHint carries a
// human-readable subscription name that an external lookup must resolve
// before it can land in SubscriptionID.
type Delta struct {
	SubscriptionID   string
	SubscriptionHint string
	ResourceGroup    string
	ResourceName     string
	Intent           string

	// Override marks the delta as an explicit user instruction to replace
	// already-confirmed fields ("switch to subscription X").
	Override bool
}

func NewContext(provider AuthProvider) *Context {
	return &Context{provider: provider}
}

func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		SubscriptionID: c.subscriptionID,
		ResourceGroup:  c.resourceGroup,
		ResourceName:   c.resourceName,
		Intent:         c.intent,
	}
}

// Merge applies the monotonic-fill rule. For addressing fields a differing
// value without the override flag fails with ConflictError and leaves the
// stored value untouched. Intent is a free-text restatement, so a new
// phrasing is not a contradiction; the first confirmed intent wins.
func (c *Context) Merge(delta Delta) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := mergeField(&c.subscriptionID, delta.SubscriptionID, FieldSubscriptionID, delta.Override); err != nil {
		return err
	}
	if err := mergeField(&c.resourceGroup, delta.ResourceGroup, FieldResourceGroup, delta.Override); err != nil {
		return err
	}
	if err := mergeField(&c.resourceName, delta.ResourceName, FieldResourceName, delta.Override); err != nil {
		return err
	}

	if c.intent == "" || delta.Override {
		if delta.Intent != "" {
			c.intent = delta.Intent
		}
	}

	return nil
}

func mergeField(current *string, proposed string, field Field, override bool) error {
	if proposed == "" {
		return nil
	}
	if *current == "" || override {
		*current = proposed
		return nil
	}
	if *current != proposed {
		return &ConflictError{Field: field, Current: *current, Proposed: proposed}
	}
	return nil
}

// Validate returns a MissingFieldError naming exactly the required fields
// that are currently unset, in declared order.
func (c *Context) Validate(required []Field) error {
	snapshot := c.Snapshot()

	missing := []Field{}
	for _, field := range required {
		if snapshot.field(field) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return &MissingFieldError{Missing: missing}
	}
	return nil
}

func (s Snapshot) field(field Field) string {
	switch field {
	case FieldSubscriptionID:
		return s.SubscriptionID
	case FieldResourceGroup:
		return s.ResourceGroup
	case FieldResourceName:
		return s.ResourceName
	case FieldIntent:
		return s.Intent
	}
	return ""
}

// EnsureAuth returns the conversation's cached credential, authenticating on
// first use. It is idempotent: a valid cached handle short-circuits, and a
// single invocation never authenticates more than once.
func (c *Context) EnsureAuth(ctx context.Context) (azcore.TokenCredential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.credential != nil {
		return c.credential, nil
	}
	if c.provider == nil {
		return nil, &auth.Error{Reason: "no credential source configured"}
	}

	credential, err := c.provider.Authenticate(ctx)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &auth.Error{Reason: "acquiring credential", Err: err}
	}

	c.credential = credential
	return credential, nil
}

func (c *Context) AppendTurn(turn Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, turn)
}

// History returns a copy of the prior turns, oldest first.
func (c *Context) History() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Turn{}, c.history...)
}
