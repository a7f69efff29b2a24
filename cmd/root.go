// Package cmd provides the command-line interface for prfetch.
package cmd

import (
	"context"
	"fmt"

	"github.com/danielolaszy/prfetch/internal/cache"
	"github.com/danielolaszy/prfetch/internal/config"
	"github.com/danielolaszy/prfetch/internal/github"
	"github.com/danielolaszy/prfetch/internal/logging"
	"github.com/danielolaszy/prfetch/internal/prompt"
	"github.com/danielolaszy/prfetch/internal/render"
	"github.com/danielolaszy/prfetch/internal/validate"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/spf13/cobra"
)

// resultCache is the one cache of this process. Every client built by
// newFetcher shares it.
var resultCache = cache.New[models.FetchResult]()

// cfg is loaded before any command runs.
var cfg = &config.Config{}

// newFetcher builds the GitHub client. Tests replace it.
var newFetcher = func(c config.GitHubConfig) (github.PullRequestFetcher, error) {
	return github.NewClient(c, resultCache)
}

// newPresenter builds the presenter for stdout. Tests replace it.
var newPresenter = func() *render.Presenter {
	return render.NewPresenter()
}

// prompter drives interactive mode.
var prompter prompt.Prompter = &prompt.DefaultPrompter{}

var rootCmd = &cobra.Command{
	Use:   "prfetch",
	Short: "prfetch lists, filters and sorts GitHub pull requests",
	Long: `prfetch retrieves pull requests of a GitHub repository page by page,
filters and sorts them locally and prints them as a compact list, detailed
blocks or JSON.

Run without arguments to be prompted for every parameter.

Authentication uses the GITHUB_TOKEN environment variable (a .env file in the
working directory is read as well). Set GITHUB_DOMAIN for GitHub Enterprise.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		logging.Configure(cfg.Logging.Level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := promptFetchParams(prompter, defaultFetchParams(cfg.Fetch))
		if err != nil {
			return err
		}
		return executeFetch(cmd.Context(), cmd, params)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(rateLimitCmd)
}

// newClientFromConfig checks the token shape and builds a client. Nothing
// touches the network before the token passes the check.
func newClientFromConfig() (github.PullRequestFetcher, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return nil, err
	}
	if err := validate.Token(cfg.GitHub.Token); err != nil {
		return nil, err
	}

	client, err := newFetcher(cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize github client: %w", err)
	}
	return client, nil
}
