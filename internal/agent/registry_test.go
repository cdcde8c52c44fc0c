package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) (*Registry, *fakeSpecialist, *fakeSpecialist, *fakeSpecialist) {
	t.Helper()

	linkedServices := &fakeSpecialist{
		id:       "linked_services",
		keywords: []string{"linked service", "linked services", "data factory"},
		ops:      []Operation{&fakeOperation{name: "list_linked_services"}},
	}
	integrationRuntime := &fakeSpecialist{
		id:       "integration_runtime",
		keywords: []string{"integration runtime", "interactive authoring", "data factory"},
		ops:      []Operation{&fakeOperation{name: "get_integration_runtime"}},
	}
	fallback := &fakeSpecialist{
		id:       "fallback",
		keywords: []string{"azure"},
		ops:      []Operation{&fakeOperation{name: "list_resource_groups"}},
	}

	registry, err := NewRegistry(fallback, linkedServices, integrationRuntime)
	require.NoError(t, err)

	return registry, linkedServices, integrationRuntime, fallback
}

func TestRegistryMatchSpecificPhraseOutranksSharedKeyword(t *testing.T) {
	registry, _, integrationRuntime, _ := testRegistry(t)

	// both specialists share "data factory"; the integration runtime phrase
	// is the tiebreaker evidence
	matches := registry.Match("is the integration runtime in data factory adf1 running")

	require.NotEmpty(t, matches)
	assert.Equal(t, integrationRuntime.ID(), matches[0].ID())
}

func TestRegistryMatchTieBreaksByDeclarationOrder(t *testing.T) {
	registry, linkedServices, _, _ := testRegistry(t)

	// "data factory" alone scores both domain specialists equally
	matches := registry.Match("tell me about data factory adf1")

	require.Len(t, matches, 2)
	assert.Equal(t, linkedServices.ID(), matches[0].ID())
}

func TestRegistryMatchNoKeywordOverlap(t *testing.T) {
	registry, _, _, fallback := testRegistry(t)

	matches := registry.Match("what is the weather like")

	assert.Empty(t, matches)
	assert.Equal(t, fallback.ID(), registry.Fallback().ID())
}

func TestRegistryFallbackMatchableByKeyword(t *testing.T) {
	registry, _, _, fallback := testRegistry(t)

	matches := registry.Match("show me my azure estate")

	require.Len(t, matches, 1)
	assert.Equal(t, fallback.ID(), matches[0].ID())
}

func TestRegistryMatchIsCaseAndWhitespaceInsensitive(t *testing.T) {
	registry, linkedServices, _, _ := testRegistry(t)

	matches := registry.Match("  List   the LINKED   Services  ")

	require.NotEmpty(t, matches)
	assert.Equal(t, linkedServices.ID(), matches[0].ID())
}

func TestRegistryMatchIsDeterministic(t *testing.T) {
	registry, _, _, _ := testRegistry(t)

	text := "linked services and integration runtime in data factory adf1"
	first := registry.Match(text)
	require.NotEmpty(t, first)

	for i := 0; i < 50; i++ {
		matches := registry.Match(text)
		require.Len(t, matches, len(first))
		for j := range matches {
			assert.Equal(t, first[j].ID(), matches[j].ID())
		}
	}
}

func TestRegistryRejectsDuplicateIDs(t *testing.T) {
	one := &fakeSpecialist{id: "dup", keywords: []string{"one"}}
	two := &fakeSpecialist{id: "dup", keywords: []string{"two"}}

	_, err := NewRegistry(nil, one, two)
	assert.ErrorContains(t, err, "duplicate specialist id")
}

func TestRegistryEntriesDeclareContracts(t *testing.T) {
	registry, linkedServices, _, fallback := testRegistry(t)

	entries := registry.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, linkedServices.ID(), entries[0].SpecialistID)
	assert.Equal(t, []string{"list_linked_services"}, entries[0].Operations)
	// the fallback registers last
	assert.Equal(t, fallback.ID(), entries[2].SpecialistID)
}
