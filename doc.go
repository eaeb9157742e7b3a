/*
Package morph switches UI element layouts when a display rotates between portrait and landscape.

It pairs an orientation monitor, which polls the host for the current screen orientation and fires an event only on genuine class transitions, with a layout switchboard, which stores one captured geometry snapshot per element per orientation and re-applies the matching one when the class changes.

# Concept

The host UI framework owns the elements and the screen. morph reaches them through ports (OrientationSource, ElementResolver) and keeps only the orientation state machine and the dual-layout registry. This Hexagonal Architecture lets the same core run behind a game loop, an HTTP server, or an MQTT sensor feed.

# Key Features

  - Debounced transitions: repeated readings of the same class never re-fire.
  - Unknown readings (face up, face down) are inert and never clear the committed class.
  - Partial coverage: an element captured for only one class is left alone on the other.
  - Invalid elements are logged and skipped; an apply sweep always completes.

# Usage

	scene := memory.NewScene(
		memory.NewElement("header", "Header", domain.Snapshot{}),
	)
	source := memory.NewStaticSource(domain.OrientationPortrait)

	eng, err := morph.New(source, scene, morph.WithElements("header"))
	if err != nil {
		log.Fatal(err)
	}

	// Arrange the element for portrait, then capture it.
	eng.CaptureAll(ctx, domain.OrientationPortrait)

	// Arrange it for landscape, then capture again.
	eng.CaptureAll(ctx, domain.OrientationLandscape)

	// From now on every rotation re-applies the captured layout.
	if err := eng.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package morph
