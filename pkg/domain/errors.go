package domain

import "errors"

// ErrElementInvalid is returned when a registered element has been destroyed or detached by the host.
var ErrElementInvalid = errors.New("element is no longer valid")

// ErrElementNotFound is returned when an element ID is not known to the host.
var ErrElementNotFound = errors.New("element not found")

// ErrInvalidOrientation is returned when an operation needs Portrait or Landscape but got something else.
var ErrInvalidOrientation = errors.New("invalid orientation")

// ErrLayoutNotFound is returned when a layout key cannot be found in the store.
var ErrLayoutNotFound = errors.New("layout not found")
