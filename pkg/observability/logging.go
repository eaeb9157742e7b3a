package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/morph/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one record per event.
// Transitions and skips are logged at Info and Warn; per-element captures,
// applies and dropped readings at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnOrientationChange: func(ctx context.Context, e *domain.OrientationEvent) {
			logger.InfoContext(ctx, "orientation_change", "previous", e.Previous, "orientation", e.Current)
		},
		OnReadingIgnored: func(ctx context.Context, e *domain.ReadingEvent) {
			logger.DebugContext(ctx, "reading_ignored", "reading", e.Reading)
		},
		OnCapture: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.DebugContext(ctx, "layout_capture", "element_id", e.ElementID, "orientation", e.Orientation)
		},
		OnApply: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.DebugContext(ctx, "layout_apply", "element_id", e.ElementID, "orientation", e.Orientation)
		},
		OnSkip: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.WarnContext(ctx, "layout_skip", "element_id", e.ElementID, "orientation", e.Orientation, "reason", e.Reason)
		},
	}
}
