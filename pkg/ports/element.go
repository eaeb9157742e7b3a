package ports

import "github.com/aretw0/morph/pkg/domain"

// Element is the host's read/write surface for one UI element's geometry.
// Values are passed through unvalidated.
type Element interface {
	// ID returns the stable identity the registry keys entries by.
	ID() string

	// Snapshot reads all seven placement fields.
	// Returns domain.ErrElementInvalid if the host destroyed or detached the element.
	Snapshot() (domain.Snapshot, error)

	// Restore writes all seven placement fields, replacing the current geometry.
	// Returns domain.ErrElementInvalid if the host destroyed or detached the element.
	Restore(domain.Snapshot) error
}

// ElementResolver looks up live host elements by ID.
type ElementResolver interface {
	// Resolve returns the element, or an error wrapping domain.ErrElementInvalid
	// (destroyed) or domain.ErrElementNotFound (never existed).
	Resolve(id string) (Element, error)
}
