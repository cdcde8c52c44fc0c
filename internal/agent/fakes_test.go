package agent

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wqeqwqeq/AzureAgent/pkg/convert"
)

// staticCredential is a no-op TokenCredential for tests.
type staticCredential struct{}

func (staticCredential) GetToken(
	ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "test-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// countingProvider tracks how many times the conversation authenticated.
type countingProvider struct {
	calls int32
	err   error
}

func (p *countingProvider) Authenticate(ctx context.Context) (azcore.TokenCredential, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.err != nil {
		return nil, p.err
	}
	return staticCredential{}, nil
}

func testContext() *Context {
	return NewContext(&countingProvider{})
}

// fakeOperation records invocations and returns a canned payload or error.
type fakeOperation struct {
	name      string
	mutating  bool
	execute   func(ctx context.Context, conversation *Context, args Args) (string, error)
	lastArgs  Args
	callCount int
}

func (o *fakeOperation) Name() string        { return o.name }
func (o *fakeOperation) Description() string { return "fake operation " + o.name }

func (o *fakeOperation) Annotations() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           o.name,
		ReadOnlyHint:    convert.ToPtr(!o.mutating),
		DestructiveHint: convert.ToPtr(o.mutating),
	}
}

func (o *fakeOperation) Execute(ctx context.Context, conversation *Context, args Args) (string, error) {
	o.callCount++
	o.lastArgs = args
	if o.execute != nil {
		return o.execute(ctx, conversation, args)
	}
	return `{"ok":true}`, nil
}

// fakeSpecialist is a minimal Specialist with a programmable planner.
type fakeSpecialist struct {
	id       string
	keywords []string
	required []Field
	ops      []Operation
	plan     func(utterance string, extraction Extraction) []Invocation
}

func (s *fakeSpecialist) ID() string              { return s.id }
func (s *fakeSpecialist) Description() string     { return "fake specialist " + s.id }
func (s *fakeSpecialist) Keywords() []string      { return s.keywords }
func (s *fakeSpecialist) RequiredFields() []Field { return s.required }
func (s *fakeSpecialist) Operations() []Operation { return s.ops }

func (s *fakeSpecialist) Plan(utterance string, extraction Extraction) []Invocation {
	if s.plan != nil {
		return s.plan(utterance, extraction)
	}
	if len(s.ops) == 0 {
		return nil
	}
	return []Invocation{{Operation: s.ops[0].Name(), Args: Args{}}}
}
