// Package flows contains the orchestration logic behind the root Engine
// methods: the layered decision algorithm, the admin-gated ACL mutations,
// and collection filtering. The root engine wires a [Deps] once at build and
// delegates; flow functions own ordering and failure classification, never
// storage or caching details.
package flows
