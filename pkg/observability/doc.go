/*
Package observability provides metrics and tracing for the algotrace engine.

A Collector registers Prometheus instruments on its own registry (never the
global one) so several engines, or tests, can coexist in one process. The
HTTP adapter exposes the registry on /metrics. Tracing goes through the
OpenTelemetry API; without a configured provider spans are no-ops.
*/
package observability
