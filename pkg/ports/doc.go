/*
Package ports defines the driven ports (interfaces) of the algotrace engine.

These interfaces decouple the core from external implementations, so the
facade and the HTTP/MCP adapters can cache runs in memory or in Redis without
knowing which.

# Key Interfaces

  - RunCache: stores produced runs by a deterministic key so identical
    (algorithm, input) requests are not recomputed.
*/
package ports
