package spatial

// Entry records where a registered entity currently sits on the grid.
type Entry struct {
	X, Z int
	Kind string
}

// Registry is the session-owned occupancy table mapping entity ids to
// grid cells. It is explicitly constructed and torn down per game
// session rather than living as process-global state, so levels and
// tests never leak entries into each other.
//
// All operations are idempotent and never error on missing ids: the
// simulation degrades rather than crashes when bookkeeping drifts.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty occupancy registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register inserts or overwrites the entry for id.
func (r *Registry) Register(id string, x, z int, kind string) {
	r.entries[id] = Entry{X: x, Z: z, Kind: kind}
}

// Update moves an existing entry to a new cell. Unknown ids are a no-op.
func (r *Registry) Update(id string, x, z int) {
	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.X, e.Z = x, z
	r.entries[id] = e
}

// Unregister removes the entry for id, if present.
func (r *Registry) Unregister(id string) {
	delete(r.entries, id)
}

// IsOccupied reports whether any entry other than ignoreID sits at
// (x, z). Pass an empty ignoreID to consider every entry.
func (r *Registry) IsOccupied(x, z int, ignoreID string) bool {
	for id, e := range r.entries {
		if id == ignoreID {
			continue
		}
		if e.X == x && e.Z == z {
			return true
		}
	}
	return false
}

// Lookup returns the entry for id.
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clear empties the table. Called on session teardown and level resets.
func (r *Registry) Clear() {
	r.entries = make(map[string]Entry)
}
