/*
Package ports defines the driven ports (interfaces) for the morph core.

These interfaces decouple the orientation monitor and the layout switchboard
from the host: its display stack, its UI element tree, and wherever it keeps
serialized layouts.

# Key Interfaces

  - OrientationSource: Supplies the host's current orientation classification.
  - Element / ElementResolver: Read and write the geometry of host UI elements.
  - Notifier: Orientation change subscriptions a switchboard attaches to.
  - LayoutStore: Persists serialized registry entries on behalf of the host.
  - DistributedLocker: Coordinates concurrent writers of the same layout key.
*/
package ports
