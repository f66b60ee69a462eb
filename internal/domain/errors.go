package domain

import "errors"

var (
	// ErrInvalidIdentity is returned when a caller supplies an unusable identity id
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrUpstreamUnavailable is returned when an upstream provider cannot be reached or parsed
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNoData is returned when an upstream provider answered without data for the subject
	ErrNoData = errors.New("no data")

	// ErrMissingConfig is returned at startup when a required setting is absent
	ErrMissingConfig = errors.New("missing required configuration")
)
