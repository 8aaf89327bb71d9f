package httpserver

import "github.com/cyberhorsey/errors"

var (
	// ErrNoHTTPFramework mirrors bp/httpserver's own check: a required
	// NewServerOpts field was left nil.
	ErrNoHTTPFramework = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_HTTP_ENGINE",
		"HTTP framework required",
	)
	// ErrNoWrapper is this server's own required-field check.
	ErrNoWrapper = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_WRAPPER",
		"commit-reveal wrapper required",
	)
)
