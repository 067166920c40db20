package schedule

import "errors"

var (
	// ErrConfig marks a fatal configuration error; no solve is attempted.
	ErrConfig = errors.New("configuration error")
	// ErrResource marks model construction blowing past the configured size
	// ceiling; it calls for a smaller variable space, not input relaxation.
	ErrResource = errors.New("resource exhaustion")
	// ErrInternal marks an internal consistency violation, such as a
	// satisfied model whose valuation places no variable for a session.
	ErrInternal = errors.New("internal consistency error")
)
