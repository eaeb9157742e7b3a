/*
Package domain contains the core domain models for the morph layout switcher.

It defines the orientation classes reported by a host display, the immutable
layout snapshots captured from UI elements, and the per-element entries that
pair an element with one snapshot slot per orientation. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Orientation: Portrait, Landscape, or the transient Unknown reading.
  - Snapshot: The seven placement fields of an element at one point in time.
  - Entry: One element with its portrait and landscape snapshot slots.
  - Report: The outcome of a capture or apply sweep over the registry.
*/
package domain
