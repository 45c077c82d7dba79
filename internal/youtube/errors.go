package youtube

import "errors"

// Sentinel errors mapped from YouTube API responses. Executors branch on
// these to decide between retrying, dropping an account, or failing the run.
var (
	ErrUnauthorized = errors.New("youtube: unauthorized")
	ErrForbidden    = errors.New("youtube: forbidden")
	ErrNotFound     = errors.New("youtube: not found")
	ErrRateLimited  = errors.New("youtube: rate limited")
	ErrServer       = errors.New("youtube: server error")
)

// IsUnauthorized reports whether the error means the account's token is no
// longer accepted
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether access to the resource is blocked without it
// being gone
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound reports whether the referenced video or comment no longer exists
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
