package switchboard

import "github.com/aretw0/morph/pkg/domain"

// registry is an insertion-ordered set of entries keyed by element ID.
// It is not safe for concurrent use; Switchboard guards it.
type registry struct {
	entries []domain.Entry
	index   map[string]int
}

func newRegistry() *registry {
	return &registry{index: make(map[string]int)}
}

// ensure returns the position of the entry for id, appending an empty one if absent.
func (r *registry) ensure(id, name string) int {
	if i, ok := r.index[id]; ok {
		if name != "" {
			r.entries[i].Name = name
		}
		return i
	}
	r.entries = append(r.entries, domain.Entry{ElementID: id, Name: name})
	r.index[id] = len(r.entries) - 1
	return len(r.entries) - 1
}

// put stores snap in the o slot of id's entry, creating the entry if needed.
func (r *registry) put(id, name string, o domain.Orientation, snap domain.Snapshot) {
	i := r.ensure(id, name)
	r.entries[i].Layouts.Set(o, snap)
}

func (r *registry) get(id string) (domain.Entry, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Entry{}, false
	}
	return r.entries[i].Clone(), true
}

// snapshot returns deep copies of all entries in insertion order.
func (r *registry) snapshot() []domain.Entry {
	out := make([]domain.Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Clone()
	}
	return out
}

// load replaces the contents. Duplicate IDs keep the position of the first
// occurrence and the slots of the last.
func (r *registry) load(entries []domain.Entry) {
	r.reset()
	for _, e := range entries {
		if e.ElementID == "" {
			continue
		}
		i := r.ensure(e.ElementID, e.Name)
		r.entries[i].Layouts = e.Layouts.Clone()
	}
}

func (r *registry) reset() {
	r.entries = nil
	r.index = make(map[string]int)
}

func (r *registry) len() int {
	return len(r.entries)
}
