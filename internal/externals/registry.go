// Package externals tracks module identifiers excluded from bundling.
package externals

// Registry is an insertion-ordered set of module identifiers.
//
// Identifiers are compared as exact strings; "Encoding" and "encoding" are
// distinct entries. The first insertion of an identifier fixes its position.
type Registry struct {
	order []string
	seen  map[string]struct{}
}

// New creates a registry pre-populated with ids in order.
func New(ids ...string) *Registry {
	r := &Registry{seen: make(map[string]struct{}, len(ids))}
	r.AddAll(ids...)
	return r
}

// Add inserts id if it is not already present. Adding a known id is a no-op.
func (r *Registry) Add(id string) {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, ok := r.seen[id]; ok {
		return
	}
	r.seen[id] = struct{}{}
	r.order = append(r.order, id)
}

// AddAll applies Add to each id in sequence order.
func (r *Registry) AddAll(ids ...string) {
	for _, id := range ids {
		r.Add(id)
	}
}

// Contains reports whether id has been added.
func (r *Registry) Contains(id string) bool {
	_, ok := r.seen[id]
	return ok
}

// Len returns the number of distinct identifiers.
func (r *Registry) Len() int { return len(r.order) }

// Ordered returns a copy of the identifiers in first-insertion order.
func (r *Registry) Ordered() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// HasPrefix reports whether prefix matches the leading identifiers of the
// registry, position for position.
func (r *Registry) HasPrefix(prefix []string) bool {
	if len(prefix) > len(r.order) {
		return false
	}
	for i, id := range prefix {
		if r.order[i] != id {
			return false
		}
	}
	return true
}
