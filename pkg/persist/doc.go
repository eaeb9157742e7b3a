/*
Package persist orchestrates saving and restoring layout registries.

The switchboard never persists snapshots itself. A host that wants layouts to
survive restarts uses a Manager to move registry contents to and from a
LayoutStore, serialized per key with in-process mutexes and, when several
replicas share a store, an optional distributed lock.
*/
package persist
