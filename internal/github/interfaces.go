package github

import (
	"context"

	"github.com/danielolaszy/prfetch/pkg/models"
)

// PullRequestFetcher defines the GitHub operations the commands depend on.
type PullRequestFetcher interface {
	VerifyCredentials(ctx context.Context) bool
	FetchPullRequests(ctx context.Context, opts FetchOptions) (models.FetchResult, error)
	InvalidateCache(opts FetchOptions) bool
	GetRateLimit(ctx context.Context) (models.RateLimit, error)
}

// Ensure Client implements PullRequestFetcher interface
var _ PullRequestFetcher = (*Client)(nil)
