// Package permission provides the bit-flag permission vocabulary used by
// goAuthz ACL entries and policy rules, plus a registry for custom named bits.
//
// # Builtin bits
//
// Read, Write, Delete, Admin, and Create occupy the five lowest bits and are
// always present. Additional named permissions may be registered through
// [Registry.Register] before the registry is frozen; bit positions are
// assigned in registration order and are stable for the lifetime of the
// process.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import any other goAuthz package.
//   - Reassign bit positions after the registry is frozen.
package permission
