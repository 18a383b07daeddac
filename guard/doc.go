// Package guard exposes method-level and HTTP-level enforcement adapters
// built on top of goAuthz.Engine decisions.
//
// # Guards
//
//   - [Guard.PreCheck] — authorize before a call runs.
//   - [Guard.PostCheck] — authorize the value a call produced; deny withholds
//     the result.
//   - [Guard.PreFilter] / [Guard.PostFilter] — reduce collections to the
//     authorized elements.
//   - [Guard.Around] — wrap a call between a pre-check on its target and a
//     post-check on its result.
//   - [Middleware] — HTTP adapter: bearer token, identity resolution, one
//     operation decision per request.
//
// # Architecture boundaries
//
// This package translates call-site and HTTP semantics into Engine calls. It
// does NOT implement authorization logic itself — every decision is delegated
// to Engine.Decide.
//
// # What this package must NOT do
//
//   - Inspect ACLs, rules, or permission masks directly.
//   - Parse tokens beyond extracting the bearer value (the identity resolver
//     owns verification).
//   - Turn a denial into anything more detailed than unauthorized/forbidden.
package guard
