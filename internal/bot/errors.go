package bot

import "errors"

var (
	// ErrUnsupportedIntent is returned for any intent other than the configured one.
	ErrUnsupportedIntent = errors.New("unsupported intent")

	// ErrMissingSlot marks a request whose search slot is absent or unusable.
	// It is answered with an ElicitSlot response and never returned.
	ErrMissingSlot = errors.New("missing required slot")
)
