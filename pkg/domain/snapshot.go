package domain

import (
	"fmt"
	"log/slog"
)

// Vec2 is a plain two-component vector.
type Vec2 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Vec3 is a plain three-component vector.
type Vec3 struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

func (v Vec3) String() string { return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z) }

// Snapshot is the full 2D placement of an element at one point in time.
// It is a value: copying it copies every field, and applying it replaces
// all seven fields on the target at once.
type Snapshot struct {
	LocalPosition    Vec3 `json:"local_position" mapstructure:"local_position"`
	LocalScale       Vec3 `json:"local_scale" mapstructure:"local_scale"`
	SizeDelta        Vec2 `json:"size_delta" mapstructure:"size_delta"`
	AnchorMin        Vec2 `json:"anchor_min" mapstructure:"anchor_min"`
	AnchorMax        Vec2 `json:"anchor_max" mapstructure:"anchor_max"`
	AnchoredPosition Vec2 `json:"anchored_position" mapstructure:"anchored_position"`
	Pivot            Vec2 `json:"pivot" mapstructure:"pivot"`
}

// LogValue implements slog.LogValuer so captures can be logged field by field.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("local_position", s.LocalPosition.String()),
		slog.String("local_scale", s.LocalScale.String()),
		slog.String("size_delta", s.SizeDelta.String()),
		slog.String("anchor_min", s.AnchorMin.String()),
		slog.String("anchor_max", s.AnchorMax.String()),
		slog.String("anchored_position", s.AnchoredPosition.String()),
		slog.String("pivot", s.Pivot.String()),
	)
}
