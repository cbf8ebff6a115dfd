/*
Package domain contains the core data model of the algotrace visualizer.

It defines the recorded unit of work (Step), the snapshot a renderer draws from
(VisualState), the output of one algorithm invocation (Run) and the structured
input accepted by the algorithm producers (Input). This package is kept pure and
free of I/O so that producers, the playback engine and the adapters can share it.

# Key Entities

  - Step: One primitive operation (compare, swap, push, recurse...) with its own
    variables, optional call stack and a complete VisualState snapshot.
  - VisualState: Everything needed to draw a picture, never a diff.
  - Run: The initial snapshot plus the ordered Steps of one (algorithm, input) pair.
  - Input: Loosely structured producer input; absent fields mean "use the default".
*/
package domain
