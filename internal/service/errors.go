package service

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrValidation marks missing or malformed caller input; the record is
	// left unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers both a missing record and one owned by another
	// user, so foreign ids never leak.
	ErrNotFound = errors.New("prediction not found")
)

// IsQuoteTimeout reports whether a quote-source failure was the bounded
// timeout rather than an ordinary upstream error, so the caller can show
// the distinct timeout message.
func IsQuoteTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
