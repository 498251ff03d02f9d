package entity

import "errors"

// Error kinds surfaced by the service. Callers classify with errors.Is;
// no error here is fatal to the process.
var (
	// ErrInvalidArgument marks a rejected domain, day range or URL.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrRateLimited is returned when the per-domain sliding window is
	// full. It is surfaced together with a retry-after estimate.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotConfigured is returned when the requested domain has no
	// publisher configuration.
	ErrNotConfigured = errors.New("domain not configured")

	// ErrNoContent is returned when every tier of the cascade was tried
	// and produced nothing.
	ErrNoContent = errors.New("no content from any source")

	// Upstream fetch failure classes.
	ErrUpstreamTimeout    = errors.New("upstream timeout")
	ErrUpstreamHTTP       = errors.New("upstream http error")
	ErrUpstreamTLS        = errors.New("upstream tls error")
	ErrUpstreamConnection = errors.New("upstream connection error")

	// ErrParse marks an unreadable feed or page.
	ErrParse = errors.New("parse error")

	// ErrInternal wraps unexpected failures; the transport maps it to
	// its generic error code.
	ErrInternal = errors.New("internal error")
)
