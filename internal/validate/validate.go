// Package validate holds pure checks over raw user input. Nothing here
// touches the network.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

const minTokenLength = 40

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// Repository splits "owner/repo" into its parts. Exactly one slash with
// non-empty halves is accepted.
func Repository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: repository %q, expected format: owner/repo", ErrInvalid, repository)
	}
	return parts[0], parts[1], nil
}

// IsRepository reports whether repository has the "owner/repo" shape.
func IsRepository(repository string) bool {
	_, _, err := Repository(repository)
	return err == nil
}

// IsToken reports whether token looks like a GitHub personal access token:
// at least 40 characters and either a ghp_ or github_pat_ prefix or purely
// hexadecimal (classic tokens).
func IsToken(token string) bool {
	if len(token) < minTokenLength {
		return false
	}
	return strings.HasPrefix(token, "ghp_") ||
		strings.HasPrefix(token, "github_pat_") ||
		hexPattern.MatchString(token)
}

// Token returns an error describing why token was rejected.
func Token(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: GITHUB_TOKEN is not set", ErrInvalid)
	}
	if !IsToken(token) {
		return fmt.Errorf("%w: GITHUB_TOKEN does not look like a GitHub token", ErrInvalid)
	}
	return nil
}

// Option checks that value is one of allowed. Matching is exact.
func Option(name, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q, must be one of: %s", ErrInvalid, name, value, strings.Join(allowed, ", "))
}

// PositiveInt parses value as an integer in [1, max]. A max of 0 means no
// upper bound.
func PositiveInt(name, value string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalid, name, value)
	}
	return n, IntRange(name, n, max)
}

// IntRange checks that n is in [1, max]. A max of 0 means no upper bound.
func IntRange(name string, n, max int) error {
	if n < 1 {
		return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalid, name, n)
	}
	if max > 0 && n > max {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalid, name, max, n)
	}
	return nil
}
