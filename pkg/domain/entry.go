package domain

import (
	"encoding/json"
)

// Layouts holds one optional snapshot per committable orientation.
// A nil slot means the orientation was never captured.
type Layouts [2]*Snapshot

// Get returns the snapshot stored for o.
func (l Layouts) Get(o Orientation) (Snapshot, bool) {
	i := o.slot()
	if i < 0 || l[i] == nil {
		return Snapshot{}, false
	}
	return *l[i], true
}

// Has reports whether a snapshot is stored for o.
func (l Layouts) Has(o Orientation) bool {
	_, ok := l.Get(o)
	return ok
}

// Set stores a copy of s under o. Unknown is ignored.
func (l *Layouts) Set(o Orientation, s Snapshot) {
	i := o.slot()
	if i < 0 {
		return
	}
	l[i] = &s
}

// Clone returns a copy that shares no snapshot pointers with l.
func (l Layouts) Clone() Layouts {
	var out Layouts
	for i, s := range l {
		if s != nil {
			c := *s
			out[i] = &c
		}
	}
	return out
}

// Entry associates one element with its orientation-keyed snapshots.
// The element is referenced by ID only; the host owns it.
type Entry struct {
	ElementID string
	Name      string
	Layouts   Layouts
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	e.Layouts = e.Layouts.Clone()
	return e
}

type entryJSON struct {
	ElementID string    `json:"element_id"`
	Name      string    `json:"name,omitempty"`
	Portrait  *Snapshot `json:"portrait,omitempty"`
	Landscape *Snapshot `json:"landscape,omitempty"`
}

// MarshalJSON writes the slots under their class names.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ElementID: e.ElementID,
		Name:      e.Name,
		Portrait:  e.Layouts[OrientationPortrait.slot()],
		Landscape: e.Layouts[OrientationLandscape.slot()],
	})
}

// UnmarshalJSON reads the representation produced by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{ElementID: raw.ElementID, Name: raw.Name}
	if raw.Portrait != nil {
		e.Layouts.Set(OrientationPortrait, *raw.Portrait)
	}
	if raw.Landscape != nil {
		e.Layouts.Set(OrientationLandscape, *raw.Landscape)
	}
	return nil
}
