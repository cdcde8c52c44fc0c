package agent

import (
	"fmt"
	"sort"
	"strings"
)

// RegistryEntry is the declared contract of one registered specialist.
// Entries are built once at registry construction and never mutated.
type RegistryEntry struct {
	SpecialistID   string
	Keywords       []string
	RequiredFields []Field
	Operations     []string

	specialist Specialist
	keywords   []string // normalized for matching
}

// Registry is the fixed keyword-to-specialist capability map. It is built
// once at process start and is read-only afterwards; concurrent readers need
// no locking. There is deliberately no runtime mutation path.
type Registry struct {
	entries  []*RegistryEntry
	fallback Specialist
}

// NewRegistry builds the registry from the given specialists, in declaration
// order. The fallback specialist handles requests no entry claims; it is also
// registered as a regular entry so keyword matches can reach it directly.
func NewRegistry(fallback Specialist, specialists ...Specialist) (*Registry, error) {
	registry := &Registry{fallback: fallback}

	all := append([]Specialist{}, specialists...)
	if fallback != nil {
		all = append(all, fallback)
	}

	seen := map[string]struct{}{}
	for _, sp := range all {
		if _, duplicate := seen[sp.ID()]; duplicate {
			return nil, fmt.Errorf("duplicate specialist id %q", sp.ID())
		}
		seen[sp.ID()] = struct{}{}

		entry := &RegistryEntry{
			SpecialistID:   sp.ID(),
			Keywords:       append([]string{}, sp.Keywords()...),
			RequiredFields: append([]Field{}, sp.RequiredFields()...),
			specialist:     sp,
		}
		for _, op := range sp.Operations() {
			entry.Operations = append(entry.Operations, op.Name())
		}
		for _, keyword := range sp.Keywords() {
			entry.keywords = append(entry.keywords, normalize(keyword))
		}

		registry.entries = append(registry.entries, entry)
	}

	return registry, nil
}

// Match returns specialists ranked by keyword overlap with the text.
// Multi-word keywords score their word count, so a more specific phrase
// outranks a shared domain keyword. Ties break by declaration order: earlier
// registrations win. Identical text and registry always produce an identical
// ranking.
func (r *Registry) Match(text string) []Specialist {
	normalized := normalize(text)

	type scored struct {
		entry *RegistryEntry
		score int
		order int
	}

	ranked := []scored{}
	for order, entry := range r.entries {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				score += len(strings.Fields(keyword))
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{entry: entry, score: score, order: order})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	matches := make([]Specialist, len(ranked))
	for i, match := range ranked {
		matches[i] = match.entry.specialist
	}

	return matches
}

// Fallback returns the catch-all specialist used when Match finds nothing.
func (r *Registry) Fallback() Specialist {
	return r.fallback
}

// Entries returns the declared contracts, in registration order.
func (r *Registry) Entries() []*RegistryEntry {
	return append([]*RegistryEntry{}, r.entries...)
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
