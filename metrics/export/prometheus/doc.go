// Package prometheus renders goAuthz metrics in Prometheus text exposition
// format without depending on the Prometheus client library.
//
// # Architecture boundaries
//
// The exporter reads engine snapshots; it never touches live counters.
// Metric names and buckets come from the shared internaldefs package so the
// OTel exporter stays in lockstep.
package prometheus
