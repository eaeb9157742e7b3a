/*
Package monitor implements the orientation state machine.

A Monitor polls (or is pushed) the host's orientation reading, debounces it
against the last committed class, and fires exactly one event per genuine
change. Unknown readings are inert: they never fire, never commit, and never
suppress a later transition.

A host that never reports Portrait or Landscape leaves the monitor
uninitialized forever. No fallback class is inferred.
*/
package monitor
