// Package identity defines the principal model consumed by the goAuthz
// decision engine and the Resolver contract for turning caller-supplied
// tokens into principals.
//
// The engine never authenticates on its own: a [Principal] and its authority
// set are resolved by an external collaborator and handed in. [JWTResolver]
// is a verify-only convenience for callers whose identity source is a signed
// JWT; it never mints tokens.
package identity
