package goAuthz

import (
	"errors"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/internal/flows"
	"github.com/MrEthical07/goAuthz/permission"
)

var (
	// ErrAuthenticationRequired is returned when no principal identity is
	// present on the request.
	ErrAuthenticationRequired = flows.ErrAuthenticationRequired
	// ErrAccessDenied is returned when a present principal lacks the
	// permission an operation requires. It never carries detail beyond the
	// decision's reason code.
	ErrAccessDenied = flows.ErrAccessDenied
	// ErrResourceNotFound is returned when an object identity has no ACL
	// node. Distinct from a denial; callers must not conflate the two in
	// logs even if an outer HTTP layer presents both uniformly.
	ErrResourceNotFound = acl.ErrResourceNotFound
	// ErrResourceExists is returned when creating an already-registered
	// object identity.
	ErrResourceExists = acl.ErrResourceExists
	// ErrStorageUnavailable is returned when the ACL backing store fails.
	// The decision layer treats it as deny, never as grant.
	ErrStorageUnavailable = acl.ErrStorageUnavailable
	// ErrUnknownPermission is returned for permission names with no
	// assigned bit. Fatal at build time, deny at runtime.
	ErrUnknownPermission = permission.ErrUnknownPermission
	// ErrRegistryFrozen is returned when registering permissions, predicates,
	// or rules after Build has frozen the registries.
	ErrRegistryFrozen = permission.ErrRegistryFrozen
	// ErrEngineNotReady is returned by methods on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
