package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/danielolaszy/prfetch/internal/github"
	"github.com/danielolaszy/prfetch/internal/query"
	"github.com/danielolaszy/prfetch/internal/render"
	"github.com/danielolaszy/prfetch/internal/validate"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) VerifyCredentials(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *mockFetcher) FetchPullRequests(ctx context.Context, opts github.FetchOptions) (models.FetchResult, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(models.FetchResult), args.Error(1)
}

func (m *mockFetcher) InvalidateCache(opts github.FetchOptions) bool {
	return m.Called(opts).Bool(0)
}

func (m *mockFetcher) GetRateLimit(ctx context.Context) (models.RateLimit, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.RateLimit), args.Error(1)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testPresenter() *render.Presenter {
	return render.NewPresenter(
		render.WithRenderer(lipgloss.NewRenderer(io.Discard)),
		render.WithClock(func() time.Time { return testNow }),
	)
}

func testResult() models.FetchResult {
	return models.FetchResult{
		Items: []models.PullRequest{
			{
				ID: 101, Number: 1, Title: "Add retries", State: "open",
				User:      models.User{Login: "alice"},
				CreatedAt: testNow.Add(-3 * time.Hour),
				Comments:  2,
			},
			{
				ID: 102, Number: 2, Title: "Fix typo", State: "open",
				User:      models.User{Login: "bob"},
				CreatedAt: testNow.Add(-2 * time.Hour),
				Comments:  7,
			},
		},
		Pagination: models.PaginationSummary{Page: 1, PerPage: 30, TotalFetched: 2},
	}
}

func mustPlan(t *testing.T, p fetchParams) fetchPlan {
	t.Helper()
	plan, err := p.plan()
	require.NoError(t, err)
	return plan
}

func validParams() fetchParams {
	return fetchParams{
		Repository: "octo/repo",
		Format:     "compact",
		State:      "open",
		Sort:       "created",
		Direction:  "desc",
		MaxPages:   10,
		PerPage:    30,
	}
}

func TestPlan(t *testing.T) {
	negative := -1

	testCases := []struct {
		name   string
		modify func(p *fetchParams)
	}{
		{"Bad repository", func(p *fetchParams) { p.Repository = "octo" }},
		{"Unknown format", func(p *fetchParams) { p.Format = "yaml" }},
		{"Unknown state", func(p *fetchParams) { p.State = "merged" }},
		{"Unknown sort", func(p *fetchParams) { p.Sort = "stars" }},
		{"Unknown direction", func(p *fetchParams) { p.Direction = "up" }},
		{"Zero max pages", func(p *fetchParams) { p.MaxPages = 0 }},
		{"Per page above limit", func(p *fetchParams) { p.PerPage = 101 }},
		{"Negative min comments", func(p *fetchParams) { p.MinComments = &negative }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.modify(&p)
			_, err := p.plan()
			assert.ErrorIs(t, err, validate.ErrInvalid)
		})
	}
}

func TestPlanMapsSortUpstream(t *testing.T) {
	p := validParams()
	p.Sort = "comments"
	p.Direction = "asc"

	plan := mustPlan(t, p)

	assert.Equal(t, "octo", plan.options.Owner)
	assert.Equal(t, "repo", plan.options.Repo)
	assert.Equal(t, "created", plan.options.Sort)
	assert.Equal(t, "asc", plan.options.Direction)
	assert.Equal(t, query.SortCriteria{Field: query.SortComments, Direction: query.Asc}, plan.sort)
}

func TestRunFetchCompact(t *testing.T) {
	m := &mockFetcher{}
	m.On("VerifyCredentials", mock.Anything).Return(true)
	m.On("FetchPullRequests", mock.Anything, mock.Anything).Return(testResult(), nil)

	p := validParams()
	p.Author = "BOB"
	plan := mustPlan(t, p)

	var out bytes.Buffer
	err := runFetch(context.Background(), &out, m, testPresenter(), plan)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "#2 Fix typo")
	assert.NotContains(t, out.String(), "Add retries")
	assert.Contains(t, out.String(), "Fetched 2 pull requests (last page 1, 30 per page)")
	m.AssertNotCalled(t, "InvalidateCache", mock.Anything)
	m.AssertExpectations(t)
}

func TestRunFetchJSONHasNoSummary(t *testing.T) {
	m := &mockFetcher{}
	m.On("VerifyCredentials", mock.Anything).Return(true)
	m.On("FetchPullRequests", mock.Anything, mock.Anything).Return(testResult(), nil)

	p := validParams()
	p.Format = "json"
	p.Sort = "comments"
	plan := mustPlan(t, p)

	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), &out, m, testPresenter(), plan))

	assert.NotContains(t, out.String(), "Fetched")

	var decoded []models.PullRequest
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 2, decoded[0].Number)
	assert.Equal(t, 1, decoded[1].Number)
}

func TestRunFetchNoResults(t *testing.T) {
	m := &mockFetcher{}
	m.On("VerifyCredentials", mock.Anything).Return(true)
	m.On("FetchPullRequests", mock.Anything, mock.Anything).Return(testResult(), nil)

	p := validParams()
	p.Label = "security"
	plan := mustPlan(t, p)

	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), &out, m, testPresenter(), plan))
	assert.Contains(t, out.String(), render.NoResults)
}

func TestRunFetchNoCacheInvalidates(t *testing.T) {
	m := &mockFetcher{}
	p := validParams()
	p.NoCache = true
	plan := mustPlan(t, p)

	m.On("VerifyCredentials", mock.Anything).Return(true)
	m.On("InvalidateCache", plan.options).Return(true).Once()
	m.On("FetchPullRequests", mock.Anything, plan.options).Return(testResult(), nil)

	var out bytes.Buffer
	require.NoError(t, runFetch(context.Background(), &out, m, testPresenter(), plan))
	m.AssertExpectations(t)
}

func TestRunFetchRejectedCredentials(t *testing.T) {
	m := &mockFetcher{}
	m.On("VerifyCredentials", mock.Anything).Return(false)

	var out bytes.Buffer
	err := runFetch(context.Background(), &out, m, testPresenter(), mustPlan(t, validParams()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Empty(t, out.String())
	m.AssertNotCalled(t, "FetchPullRequests", mock.Anything, mock.Anything)
}

func TestRunFetchDescribesErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		contains string
		is       error
	}{
		{
			name:     "Not found",
			err:      &github.Error{Kind: github.KindNotFound, Op: "list pull requests"},
			contains: "repository octo/repo not found",
			is:       github.ErrNotFound,
		},
		{
			name:     "Auth",
			err:      &github.Error{Kind: github.KindAuth, Op: "list pull requests"},
			contains: "authentication failed",
			is:       github.ErrAuth,
		},
		{
			name:     "Rate limited",
			err:      &github.Error{Kind: github.KindRateLimited, Op: "list pull requests"},
			contains: "rate limit exceeded",
			is:       github.ErrRateLimited,
		},
		{
			name:     "Forbidden",
			err:      &github.Error{Kind: github.KindForbidden, Op: "list pull requests"},
			contains: "access to octo/repo is forbidden",
			is:       github.ErrForbidden,
		},
		{
			name:     "Generic",
			err:      &github.Error{Kind: github.KindGeneric, Op: "list pull requests", Err: errors.New("connection reset")},
			contains: "failed to fetch pull requests",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockFetcher{}
			m.On("VerifyCredentials", mock.Anything).Return(true)
			m.On("FetchPullRequests", mock.Anything, mock.Anything).Return(models.FetchResult{}, tc.err)

			var out bytes.Buffer
			err := runFetch(context.Background(), &out, m, testPresenter(), mustPlan(t, validParams()))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			assert.Empty(t, out.String())
		})
	}
}
