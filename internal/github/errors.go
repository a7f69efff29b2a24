package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v41/github"
)

// Kind identifies the class of an API failure.
type Kind int

const (
	// KindGeneric covers transport, decoding and unexpected status failures.
	KindGeneric Kind = iota
	// KindNotFound means the repository does not exist or the token cannot see it.
	KindNotFound
	// KindAuth means the token was rejected.
	KindAuth
	// KindRateLimited means the primary or secondary rate limit was hit.
	KindRateLimited
	// KindForbidden means access was denied for a reason other than rate limiting.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "authentication failed"
	case KindRateLimited:
		return "rate limited"
	case KindForbidden:
		return "forbidden"
	default:
		return "request failed"
	}
}

// Sentinels for errors.Is against a classified *Error.
var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrAuth        = &Error{Kind: KindAuth}
	ErrRateLimited = &Error{Kind: KindRateLimited}
	ErrForbidden   = &Error{Kind: KindForbidden}
)

// Error is a classified GitHub API failure.
type Error struct {
	Kind Kind
	// Op names the call that failed, e.g. "list pull requests".
	Op string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels above work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of err, or KindGeneric when err is not classified.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindGeneric
}

// classify turns an error returned by go-github into an *Error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &Error{Kind: KindRateLimited, Op: op, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &Error{Kind: KindRateLimited, Op: op, Err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return &Error{Kind: KindNotFound, Op: op, Err: err}
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Op: op, Err: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimited, Op: op, Err: err}
		case http.StatusForbidden:
			return &Error{Kind: KindForbidden, Op: op, Err: err}
		}
	}

	return &Error{Kind: KindGeneric, Op: op, Err: err}
}
