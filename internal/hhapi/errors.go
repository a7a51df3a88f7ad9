package hhapi

import (
	"errors"
	"fmt"
)

// Sentinel errors for failure classes the bot reports differently to users.
var (
	// ErrRateLimited - the API returned 429, back off before retrying
	ErrRateLimited = errors.New("hh api rate limit exceeded")
	// ErrTimeout - the request deadline expired
	ErrTimeout = errors.New("hh api request timed out")
	// ErrConnection - the request never reached the API
	ErrConnection = errors.New("hh api connection failed")
)

// StatusError reports an unexpected HTTP status from the API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusCode >= 500 {
		return fmt.Sprintf("hh api server error: %d", e.StatusCode)
	}
	return fmt.Sprintf("hh api error: %d - %s", e.StatusCode, e.Body)
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 500
}
