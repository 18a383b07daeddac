// Package otel bridges goAuthz metric snapshots into OpenTelemetry
// observable instruments.
//
// The exporter registers a single callback that reads one snapshot per
// collection cycle, so the engine's hot path never sees OTel machinery.
// Instrument names come from the shared internaldefs package.
package otel
