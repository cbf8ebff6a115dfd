/*
Package algorithms holds the instrumented algorithm producers and their catalog.

A producer is a pure function from a domain.Input to a domain.Run. It re-executes
its algorithm once, eagerly, and pushes a Step at every primitive operation
(comparison, swap, write, enqueue, recursive call, backtrack...). Each Step carries
a full snapshot built from the producer's working memory; the recorder copies it
at push time.

Producers never fail: absent input fields fall back to the catalog defaults and
out-of-range parameters are clamped.
*/
package algorithms
