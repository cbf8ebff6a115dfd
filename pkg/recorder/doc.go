// Package recorder implements the instrumentation convention shared by every
// algorithm producer: push a Step with a freshly copied snapshot at each
// primitive operation, and keep a caller-owned shadow call stack for
// recursive algorithms.
package recorder
