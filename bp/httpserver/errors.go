package httpserver

import "github.com/cyberhorsey/errors"

var (
	// ErrNoHTTPFramework mirrors the teacher's ErrNoHTTPFramework: a
	// required NewServerOpts field was left nil.
	ErrNoHTTPFramework = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_HTTP_ENGINE",
		"HTTP framework required",
	)
	// ErrNoPlanner is this server's own required-field check.
	ErrNoPlanner = errors.Validation.NewWithKeyAndDetail(
		"ERR_NO_PLANNER",
		"planner required",
	)
)
