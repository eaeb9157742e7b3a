package domain

import (
	"fmt"
	"strings"
)

// Orientation is the classified orientation of the host display.
// The zero value is OrientationUnknown, which is never committed as a state.
type Orientation int8

const (
	OrientationUnknown Orientation = iota
	OrientationPortrait
	OrientationLandscape
)

// Orientations lists the committable classes in slot order.
var Orientations = [...]Orientation{OrientationPortrait, OrientationLandscape}

// String returns the lowercase name of the class.
func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return KeyPortrait
	case OrientationLandscape:
		return KeyLandscape
	default:
		return KeyUnknown
	}
}

// Valid reports whether o is a committable class (Portrait or Landscape).
func (o Orientation) Valid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// slot returns the Layouts index for o, or -1 for Unknown.
func (o Orientation) slot() int {
	switch o {
	case OrientationPortrait:
		return 0
	case OrientationLandscape:
		return 1
	default:
		return -1
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It is strict: only the three canonical names are accepted.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOrientation parses one of "portrait", "landscape" or "unknown" (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case KeyPortrait:
		return OrientationPortrait, nil
	case KeyLandscape:
		return OrientationLandscape, nil
	case KeyUnknown, "":
		return OrientationUnknown, nil
	}
	return OrientationUnknown, fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
}

// Classify maps a raw host screen orientation name to its class.
// Upside-down and left/right variants fold into their class; face up/down,
// auto-rotation and anything unrecognised are Unknown.
func Classify(raw string) Orientation {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)

	switch name {
	case "portrait", "portrait_upside_down", "portraitupsidedown":
		return OrientationPortrait
	case "landscape", "landscape_left", "landscape_right", "landscapeleft", "landscaperight":
		return OrientationLandscape
	default:
		return OrientationUnknown
	}
}

// ClassifyDimensions derives a class from a viewport size.
// Square or degenerate viewports are Unknown.
func ClassifyDimensions(width, height float64) Orientation {
	if width <= 0 || height <= 0 || width == height {
		return OrientationUnknown
	}
	if height > width {
		return OrientationPortrait
	}
	return OrientationLandscape
}
