package flows

import "errors"

var (
	// ErrAuthenticationRequired is returned when no principal identity is
	// present. Distinct from a denial: the caller was never authenticated.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrAccessDenied is returned when a present principal lacks the
	// permission an operation requires. It carries no detail beyond the
	// decision's reason code.
	ErrAccessDenied = errors.New("access denied")
)
