package domain

import (
	"context"
	"time"
)

// EventType defines the category of a layout event.
type EventType string

const (
	EventCapture EventType = "capture"
	EventApply   EventType = "apply"
	EventSkip    EventType = "skip"
)

// OrientationEvent is emitted once per committed orientation change.
type OrientationEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Previous  Orientation `json:"previous"` // Unknown when leaving the uninitialized state
	Current   Orientation `json:"current"`
}

// ReadingEvent describes a reading the monitor dropped.
type ReadingEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Reading   Orientation `json:"reading"`
}

// LayoutEvent describes a capture, apply or skip for one element.
type LayoutEvent struct {
	Timestamp   time.Time   `json:"timestamp"`
	Type        EventType   `json:"type"`
	ElementID   string      `json:"element_id"`
	Orientation Orientation `json:"orientation"`
	Reason      string      `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for monitor and switchboard observability.
type LifecycleHooks struct {
	OnOrientationChange func(context.Context, *OrientationEvent)
	OnReadingIgnored    func(context.Context, *ReadingEvent)
	OnCapture           func(context.Context, *LayoutEvent)
	OnApply             func(context.Context, *LayoutEvent)
	OnSkip              func(context.Context, *LayoutEvent)
}

// ChainHooks returns hooks that invoke each of the given hook sets in order.
func ChainHooks(all ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnOrientationChange: func(ctx context.Context, e *OrientationEvent) {
			for _, h := range all {
				if h.OnOrientationChange != nil {
					h.OnOrientationChange(ctx, e)
				}
			}
		},
		OnReadingIgnored: func(ctx context.Context, e *ReadingEvent) {
			for _, h := range all {
				if h.OnReadingIgnored != nil {
					h.OnReadingIgnored(ctx, e)
				}
			}
		},
		OnCapture: func(ctx context.Context, e *LayoutEvent) {
			for _, h := range all {
				if h.OnCapture != nil {
					h.OnCapture(ctx, e)
				}
			}
		},
		OnApply: func(ctx context.Context, e *LayoutEvent) {
			for _, h := range all {
				if h.OnApply != nil {
					h.OnApply(ctx, e)
				}
			}
		},
		OnSkip: func(ctx context.Context, e *LayoutEvent) {
			for _, h := range all {
				if h.OnSkip != nil {
					h.OnSkip(ctx, e)
				}
			}
		},
	}
}
