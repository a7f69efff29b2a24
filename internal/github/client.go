// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/danielolaszy/prfetch/internal/cache"
	"github.com/danielolaszy/prfetch/internal/config"
	"github.com/danielolaszy/prfetch/internal/logging"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"
)

// Defaults applied by FetchOptions when a field is left zero.
const (
	DefaultState     = "open"
	DefaultSort      = "created"
	DefaultDirection = "desc"
	DefaultPerPage   = 30
	DefaultMaxPages  = 10

	// MaxPerPage is the largest page size the API honours.
	MaxPerPage = 100
)

// FetchOptions selects which pull requests to fetch and how many pages to walk.
type FetchOptions struct {
	Owner string
	Repo  string

	// State is "open", "closed" or "all".
	State string
	// Sort is the upstream sort field: "created", "updated", "popularity" or "long-running".
	Sort      string
	Direction string

	PerPage  int
	MaxPages int
}

func (o FetchOptions) withDefaults() FetchOptions {
	if o.State == "" {
		o.State = DefaultState
	}
	if o.Sort == "" {
		o.Sort = DefaultSort
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.PerPage > MaxPerPage {
		o.PerPage = MaxPerPage
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// CacheKey identifies the query. Page size and page cap are not part of the
// key, so a cached result fetched with a smaller budget is served as-is.
func (o FetchOptions) CacheKey() string {
	o = o.withDefaults()
	return cache.GenerateKey(o.Owner, o.Repo, o.State, o.Sort, o.Direction)
}

// Client encapsulates the GitHub API client and the result cache it fills.
type Client struct {
	client *github.Client
	cache  *cache.Cache[models.FetchResult]
}

// NewClient creates a GitHub API client authenticated with cfg.Token.
// Results are stored in store; a nil store gets a private cache.
// No request is made here; use VerifyCredentials to test the token.
func NewClient(cfg config.GitHubConfig, store *cache.Cache[models.FetchResult]) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	apiURL := cfg.BaseURL()
	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url: %w", err)
	}

	logging.Debug("github configuration",
		"domain", cfg.Domain,
		"api_url", apiURL,
		"token", logging.MaskSensitive(token))

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)
	client.BaseURL = parsedURL
	client.UploadURL = parsedURL
	client.UserAgent = "prfetch"

	if store == nil {
		store = cache.New[models.FetchResult]()
	}

	return &Client{client: client, cache: store}, nil
}

// VerifyCredentials makes one authenticated "who am I" call and reports
// whether it succeeded. The reason for a failure is only logged.
func (c *Client) VerifyCredentials(ctx context.Context) bool {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		logging.Debug("credential check failed", "error", err)
		return false
	}

	logging.Debug("github authentication successful", "username", user.GetLogin())
	return true
}

// FetchPullRequests returns every pull request matching opts across at most
// opts.MaxPages pages, or the cached result of an identical earlier query.
//
// Pages are requested one after another starting at 1. The loop stops on an
// empty page, when the API reports no next page, or after page MaxPages. Any
// failed page aborts the whole fetch; nothing partial is returned or cached.
func (c *Client) FetchPullRequests(ctx context.Context, opts FetchOptions) (models.FetchResult, error) {
	opts = opts.withDefaults()
	key := opts.CacheKey()

	if cached, ok := c.cache.Get(key); ok {
		logging.Debug("serving pull requests from cache",
			"key", key,
			"count", len(cached.Items))
		return cached, nil
	}

	listOpts := &github.PullRequestListOptions{
		State:     opts.State,
		Sort:      opts.Sort,
		Direction: opts.Direction,
		ListOptions: github.ListOptions{
			PerPage: opts.PerPage,
		},
	}

	items := make([]models.PullRequest, 0, opts.PerPage)
	page := 0
	hasNextPage := false
	for {
		page++
		listOpts.Page = page

		logging.Debug("fetching pull request page",
			"repository", opts.Owner+"/"+opts.Repo,
			"page", page,
			"per_page", opts.PerPage)

		prs, resp, err := c.client.PullRequests.List(ctx, opts.Owner, opts.Repo, listOpts)
		if err != nil {
			logging.Error("failed to fetch pull requests",
				"repository", opts.Owner+"/"+opts.Repo,
				"page", page,
				"error", err)
			return models.FetchResult{}, classify("list pull requests", err)
		}

		if len(prs) == 0 {
			break
		}
		for _, pr := range prs {
			items = append(items, convertPullRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		if page >= opts.MaxPages {
			hasNextPage = true
			break
		}
	}

	result := models.FetchResult{
		Items: items,
		Pagination: models.PaginationSummary{
			Page:         page,
			PerPage:      opts.PerPage,
			HasNextPage:  hasNextPage,
			TotalFetched: len(items),
		},
	}
	c.cache.Set(key, result)

	logging.Info("fetched pull requests",
		"repository", opts.Owner+"/"+opts.Repo,
		"count", len(items),
		"pages", page,
		"has_next_page", hasNextPage)

	return result, nil
}

// InvalidateCache drops the cached result for opts' query and reports whether
// there was one.
func (c *Client) InvalidateCache(opts FetchOptions) bool {
	return c.cache.Delete(opts.CacheKey())
}

// GetRateLimit returns the core API quota for the token.
func (c *Client) GetRateLimit(ctx context.Context) (models.RateLimit, error) {
	limits, _, err := c.client.RateLimits(ctx)
	if err != nil {
		return models.RateLimit{}, classify("get rate limit", err)
	}
	if limits == nil || limits.Core == nil {
		return models.RateLimit{}, &Error{Kind: KindGeneric, Op: "get rate limit", Err: fmt.Errorf("response has no core rate limit")}
	}

	return models.RateLimit{
		Remaining: limits.Core.Remaining,
		Limit:     limits.Core.Limit,
		Reset:     limits.Core.Reset.Time,
	}, nil
}

// convertPullRequest copies the fields we use out of the API object so the
// result shares no memory with go-github's structures.
func convertPullRequest(pr *github.PullRequest) models.PullRequest {
	labels := make([]models.Label, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		if label == nil {
			continue
		}
		labels = append(labels, models.Label{
			ID:          label.GetID(),
			Name:        label.GetName(),
			Color:       label.GetColor(),
			Description: copyString(label.Description),
		})
	}

	reviewers := make([]models.User, 0, len(pr.RequestedReviewers))
	for _, reviewer := range pr.RequestedReviewers {
		if reviewer == nil {
			continue
		}
		reviewers = append(reviewers, convertUser(reviewer))
	}

	return models.PullRequest{
		ID:                 pr.GetID(),
		Number:             pr.GetNumber(),
		Title:              pr.GetTitle(),
		State:              pr.GetState(),
		User:               convertUser(pr.GetUser()),
		Body:               copyString(pr.Body),
		CreatedAt:          pr.GetCreatedAt(),
		UpdatedAt:          pr.GetUpdatedAt(),
		ClosedAt:           copyTime(pr.ClosedAt),
		MergedAt:           copyTime(pr.MergedAt),
		HTMLURL:            pr.GetHTMLURL(),
		Draft:              pr.GetDraft(),
		Labels:             labels,
		RequestedReviewers: reviewers,
		Comments:           pr.GetComments(),
		ReviewComments:     pr.GetReviewComments(),
		Commits:            pr.GetCommits(),
		Additions:          pr.GetAdditions(),
		Deletions:          pr.GetDeletions(),
		ChangedFiles:       pr.GetChangedFiles(),
	}
}

func convertUser(u *github.User) models.User {
	return models.User{
		Login:     u.GetLogin(),
		ID:        u.GetID(),
		AvatarURL: u.GetAvatarURL(),
		HTMLURL:   u.GetHTMLURL(),
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
