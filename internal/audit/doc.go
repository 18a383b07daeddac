// Package audit implements async fan-out of authorization decisions and ACL
// mutations to listener sinks.
//
// # Components
//
//   - [Sink] — interface for event consumers (channel, JSON writer, multi,
//     no-op).
//   - [Dispatcher] — buffered async relay with drop-if-full / block-if-full
//     semantics and panic isolation.
//   - [Event] — structured decision record: principal, operation, resource,
//     required mask, outcome, reason code, UTC timestamp.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT make or
// alter decisions — a listener failure can never change an outcome that was
// already decided.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goAuthz or any sibling internal package.
//   - Block a decision path when DropIfFull is set.
package audit
