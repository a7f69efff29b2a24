package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/danielolaszy/prfetch/internal/config"
	"github.com/danielolaszy/prfetch/internal/github"
	"github.com/danielolaszy/prfetch/internal/logging"
	"github.com/danielolaszy/prfetch/internal/query"
	"github.com/danielolaszy/prfetch/internal/render"
	"github.com/danielolaszy/prfetch/internal/validate"
	"github.com/spf13/cobra"
)

// states lists the accepted pull request states.
var states = []string{"open", "closed", "all"}

// fetchParams holds raw user input for one fetch, before validation.
type fetchParams struct {
	Repository  string
	Format      string
	State       string
	Sort        string
	Direction   string
	Author      string
	Label       string
	MinComments *int
	MaxPages    int
	PerPage     int
	NoCache     bool
}

// fetchPlan is a validated fetchParams.
type fetchPlan struct {
	repository string
	options    github.FetchOptions
	filter     query.FilterCriteria
	sort       query.SortCriteria
	format     render.Format
	noCache    bool
}

func defaultFetchParams(fc config.FetchConfig) fetchParams {
	return fetchParams{
		Format:    fc.Format,
		State:     github.DefaultState,
		Sort:      string(query.SortCreated),
		Direction: string(query.Desc),
		MaxPages:  fc.MaxPages,
		PerPage:   fc.PerPage,
	}
}

// plan validates p. It never corrects bad input.
func (p fetchParams) plan() (fetchPlan, error) {
	owner, repo, err := validate.Repository(p.Repository)
	if err != nil {
		return fetchPlan{}, err
	}
	if err := validate.Option("format", p.Format, render.Formats); err != nil {
		return fetchPlan{}, err
	}
	if err := validate.Option("state", p.State, states); err != nil {
		return fetchPlan{}, err
	}
	if err := validate.Option("sort", p.Sort, query.SortFields); err != nil {
		return fetchPlan{}, err
	}
	if err := validate.Option("direction", p.Direction, query.Directions); err != nil {
		return fetchPlan{}, err
	}
	if err := validate.IntRange("max-pages", p.MaxPages, 0); err != nil {
		return fetchPlan{}, err
	}
	if err := validate.IntRange("per-page", p.PerPage, github.MaxPerPage); err != nil {
		return fetchPlan{}, err
	}
	if p.MinComments != nil && *p.MinComments < 0 {
		return fetchPlan{}, fmt.Errorf("%w: min-comments must not be negative, got %d", validate.ErrInvalid, *p.MinComments)
	}

	field := query.SortField(p.Sort)
	direction := query.Direction(p.Direction)

	return fetchPlan{
		repository: p.Repository,
		options: github.FetchOptions{
			Owner:     owner,
			Repo:      repo,
			State:     p.State,
			Sort:      query.UpstreamSort(field),
			Direction: string(direction),
			PerPage:   p.PerPage,
			MaxPages:  p.MaxPages,
		},
		filter: query.FilterCriteria{
			Author:      p.Author,
			Label:       p.Label,
			MinComments: p.MinComments,
		},
		sort:    query.SortCriteria{Field: field, Direction: direction},
		format:  render.Format(p.Format),
		noCache: p.NoCache,
	}, nil
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <owner/repo>",
	Short: "Fetch pull requests of a repository",
	Long: `Fetch pull requests of a GitHub repository, page by page, up to --max-pages
pages of --per-page items. Results are cached in memory for five minutes per
repository, state, sort field and direction.

Filters (--author, --label, --min-comments) and the sort order are applied
locally after fetching. Sorting by comments or title fetches in creation order
and reorders the result.

Example:
  prfetch fetch cli/cli --state all --sort comments --min-comments 5 -f detailed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := fetchParamsFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		return executeFetch(cmd.Context(), cmd, params)
	},
}

func init() {
	fetchCmd.Flags().StringP("format", "f", "compact", "Output format: compact, detailed or json (default from PRFETCH_FORMAT)")
	fetchCmd.Flags().StringP("state", "s", github.DefaultState, "Pull request state: open, closed or all")
	fetchCmd.Flags().String("sort", string(query.SortCreated), "Sort by: created, updated, comments or title")
	fetchCmd.Flags().StringP("direction", "d", string(query.Desc), "Sort direction: asc or desc")
	fetchCmd.Flags().String("author", "", "Only show pull requests by this login (case-insensitive)")
	fetchCmd.Flags().String("label", "", "Only show pull requests carrying this label (case-insensitive)")
	fetchCmd.Flags().Int("min-comments", 0, "Only show pull requests with at least this many comments and review comments")
	fetchCmd.Flags().Int("max-pages", github.DefaultMaxPages, "Maximum number of pages to fetch (default from PRFETCH_MAX_PAGES)")
	fetchCmd.Flags().Int("per-page", github.DefaultPerPage, "Pull requests per page, at most 100 (default from PRFETCH_PER_PAGE)")
	fetchCmd.Flags().Bool("no-cache", false, "Ignore any cached result and fetch again")
}

// fetchParamsFromFlags reads the fetch flags. Flags the user did not set
// take their value from configuration.
func fetchParamsFromFlags(cmd *cobra.Command, repository string) (fetchParams, error) {
	params := defaultFetchParams(cfg.Fetch)
	params.Repository = repository
	flags := cmd.Flags()

	var err error
	if flags.Changed("format") || params.Format == "" {
		if params.Format, err = flags.GetString("format"); err != nil {
			return params, err
		}
	}
	if params.State, err = flags.GetString("state"); err != nil {
		return params, err
	}
	if params.Sort, err = flags.GetString("sort"); err != nil {
		return params, err
	}
	if params.Direction, err = flags.GetString("direction"); err != nil {
		return params, err
	}
	if params.Author, err = flags.GetString("author"); err != nil {
		return params, err
	}
	if params.Label, err = flags.GetString("label"); err != nil {
		return params, err
	}
	if flags.Changed("min-comments") {
		n, err := flags.GetInt("min-comments")
		if err != nil {
			return params, err
		}
		params.MinComments = &n
	}
	if flags.Changed("max-pages") || params.MaxPages == 0 {
		if params.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return params, err
		}
	}
	if flags.Changed("per-page") || params.PerPage == 0 {
		if params.PerPage, err = flags.GetInt("per-page"); err != nil {
			return params, err
		}
	}
	if params.NoCache, err = flags.GetBool("no-cache"); err != nil {
		return params, err
	}

	return params, nil
}

// executeFetch validates params, builds a client and runs the fetch.
func executeFetch(ctx context.Context, cmd *cobra.Command, params fetchParams) error {
	plan, err := params.plan()
	if err != nil {
		return err
	}

	client, err := newClientFromConfig()
	if err != nil {
		return err
	}

	return runFetch(ctx, cmd.OutOrStdout(), client, newPresenter(), plan)
}

// runFetch checks credentials, fetches, filters, sorts and renders.
func runFetch(ctx context.Context, w io.Writer, client github.PullRequestFetcher, presenter *render.Presenter, plan fetchPlan) error {
	if !client.VerifyCredentials(ctx) {
		return fmt.Errorf("authentication failed: check that GITHUB_TOKEN is valid and not expired")
	}

	if plan.noCache && client.InvalidateCache(plan.options) {
		logging.Debug("dropped cached result", "key", plan.options.CacheKey())
	}

	logging.Info("fetching pull requests",
		"repository", plan.repository,
		"state", plan.options.State,
		"max_pages", plan.options.MaxPages,
		"per_page", plan.options.PerPage)

	result, err := client.FetchPullRequests(ctx, plan.options)
	if err != nil {
		return describeError(plan.repository, err)
	}

	items := query.Filter(result.Items, plan.filter)
	items = query.Sort(items, plan.sort)

	logging.Debug("applied filters",
		"fetched", len(result.Items),
		"matching", len(items))

	out, err := presenter.Render(items, plan.format)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)

	if plan.format != render.FormatJSON {
		fmt.Fprintln(w)
		fmt.Fprintln(w, presenter.RenderSummary(result.Pagination))
	}

	return nil
}

// describeError maps a classified fetch failure to a message the user can act on.
func describeError(repository string, err error) error {
	switch github.KindOf(err) {
	case github.KindNotFound:
		return fmt.Errorf("repository %s not found or you do not have access to it: %w", repository, err)
	case github.KindAuth:
		return fmt.Errorf("authentication failed: check that GITHUB_TOKEN is valid: %w", err)
	case github.KindRateLimited:
		return fmt.Errorf("GitHub API rate limit exceeded, run 'prfetch rate-limit' to see when it resets: %w", err)
	case github.KindForbidden:
		return fmt.Errorf("access to %s is forbidden: %w", repository, err)
	case github.KindGeneric:
		return fmt.Errorf("failed to fetch pull requests: %w", err)
	}
	return err
}
