// Package switchboard stores two layout snapshots per registered element and
// replays the matching one whenever the display orientation changes.
package switchboard
