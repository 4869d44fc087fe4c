// SPDX-License-Identifier: MIT
// Package: taxatab/taxonomy
//
// resolver.go - feature ID → Lineage lookup.

package taxonomy

// Resolver maps feature identifiers to parsed lineages. Lineage strings are
// parsed once at construction; a Resolver is read-only afterwards and safe
// for concurrent use.
type Resolver struct {
	lineages map[string]Lineage
}

// Report counts unresolved taxonomy over a ResolveAll call.
// Partial includes Missing: a missing lineage lacks six of seven ranks.
type Report struct {
	Missing int // features with no lineage entry
	Partial int // features lacking one or more of the seven ranks
}

// NewResolver parses every lineage string in m (feature ID → lineage).
// A nil map yields a resolver that knows no features.
func NewResolver(m map[string]string) *Resolver {
	r := &Resolver{lineages: make(map[string]Lineage, len(m))}
	for id, s := range m {
		r.lineages[id] = ParseLineage(s)
	}

	return r
}

// Len returns the number of features with a lineage entry.
func (r *Resolver) Len() int { return len(r.lineages) }

// Lookup returns the lineage for id. When id has no entry the Unknown
// lineage is returned with ok == false.
func (r *Resolver) Lookup(id string) (Lineage, bool) {
	l, ok := r.lineages[id]
	if !ok {
		return UnknownLineage(), false
	}

	return l, true
}

// ResolveAll resolves ids in order and counts missing and partial lineages.
// Missing taxonomy is never an error.
// Complexity: O(len(ids)).
func (r *Resolver) ResolveAll(ids []string) ([]Lineage, Report) {
	out := make([]Lineage, len(ids))
	var rep Report
	for i, id := range ids {
		l, ok := r.Lookup(id)
		if !ok {
			rep.Missing++
		}
		if !l.Complete() {
			rep.Partial++
		}
		out[i] = l
	}

	return out, rep
}
