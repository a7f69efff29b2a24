// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// PullRequest is a snapshot of a GitHub pull request taken at fetch time.
// Values are never modified after construction; downstream stages treat
// them as read-only.
type PullRequest struct {
	// ID is the globally unique numeric identifier of the pull request
	ID int64 `json:"id"`

	// Number is the pull request number in the repository (e.g., 42)
	Number int `json:"number"`

	Title string `json:"title"`

	// State is either "open" or "closed"
	State string `json:"state"`

	User User `json:"user"`

	// Body is the free-text description, nil when the author left it empty
	Body *string `json:"body"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`

	HTMLURL string `json:"html_url"`
	Draft   bool   `json:"draft"`

	Labels             []Label `json:"labels"`
	RequestedReviewers []User  `json:"requested_reviewers"`

	Comments       int `json:"comments"`
	ReviewComments int `json:"review_comments"`
	Commits        int `json:"commits"`
	Additions      int `json:"additions"`
	Deletions      int `json:"deletions"`
	ChangedFiles   int `json:"changed_files"`
}

// TotalComments returns issue comments plus review comments.
func (p PullRequest) TotalComments() int {
	return p.Comments + p.ReviewComments
}

// User represents a GitHub account (author or reviewer).
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Label represents a label attached to a pull request.
type Label struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

// PaginationSummary describes how far a fetch walked through the pages.
type PaginationSummary struct {
	// Page is the last page number requested
	Page int `json:"page"`

	PerPage int `json:"per_page"`

	// HasNextPage is true when the fetch stopped at the page cap while the
	// API still reported more pages
	HasNextPage bool `json:"has_next_page"`

	TotalFetched int `json:"total_fetched"`
}

// FetchResult is the unit stored in the cache for one query.
type FetchResult struct {
	Items      []PullRequest
	Pagination PaginationSummary
}

// RateLimit is the core API quota of the authenticated token.
type RateLimit struct {
	Remaining int
	Limit     int

	// Reset is the instant the quota is replenished
	Reset time.Time
}
