package domain

// Skip records an element left out of a sweep.
type Skip struct {
	ElementID string `json:"element_id"`
	Reason    string `json:"reason"`
}

// Report is the outcome of a capture or apply sweep.
// Elements lists the IDs written (apply) or read (capture), in registry order.
// Entries without a snapshot for the orientation appear in neither list.
type Report struct {
	Orientation Orientation `json:"orientation"`
	Elements    []string    `json:"elements"`
	Skipped     []Skip      `json:"skipped,omitempty"`
}
