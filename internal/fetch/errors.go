// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
)

// ErrChallenge is returned when the provider serves a bot-verification
// page instead of profile data. Retryable: the block is usually
// temporary at low request rates.
var ErrChallenge = errors.New("bot challenge page returned instead of profile data")

// StatusError is a non-2xx HTTP response from the provider. Retryable.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d", e.Code)
}

// ParseError means the expected structure was absent from the response
// body. Not retryable: a malformed page will not fix itself.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing provider response: " + e.Reason
}

// retryable classifies an error from a Source. Network errors, bad
// statuses, and challenge pages are retried; structural and validation
// errors are not.
func retryable(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	return true
}
