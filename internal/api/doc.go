// Package api defines wire-format types and converters for the HTTP API
// layer. It translates internal queue models into transport-friendly DTOs so
// CLI and other consumers never couple to internal types.
//
// DTOs use camelCase JSON tags. Internal enums (queue.State) are exposed as
// lowercase strings. Timestamps use RFC3339 with milliseconds. Derived state
// is computed once during conversion, so API consumers never see the raw
// stage flags.
package api
