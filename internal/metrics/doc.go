// Package metrics provides observability hooks for asset builds.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites. The watch command
// swaps in a PrometheusRecorder and serves it over HTTP when a metrics
// address is configured.
package metrics
