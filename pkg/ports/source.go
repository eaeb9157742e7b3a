package ports

import (
	"context"

	"github.com/aretw0/morph/pkg/domain"
)

// OrientationSource supplies the host's current orientation reading.
// The host's own display stack does the classification; the core only consumes it.
type OrientationSource interface {
	// Read returns the current classification. Unknown is a valid transient reading.
	Read(ctx context.Context) domain.Orientation
}

// SourceFunc adapts a plain function to OrientationSource.
type SourceFunc func(ctx context.Context) domain.Orientation

// Read calls f.
func (f SourceFunc) Read(ctx context.Context) domain.Orientation {
	return f(ctx)
}

// Listener receives committed orientation changes.
type Listener func(ctx context.Context, event domain.OrientationEvent)

// Unsubscribe detaches a previously registered listener. Calling it more than once is a no-op.
type Unsubscribe func()

// Notifier fans orientation changes out to listeners.
type Notifier interface {
	// OnPortrait registers fn for every transition into Portrait.
	OnPortrait(fn Listener) Unsubscribe

	// OnLandscape registers fn for every transition into Landscape.
	OnLandscape(fn Listener) Unsubscribe
}
