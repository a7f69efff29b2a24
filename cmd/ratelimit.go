package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/danielolaszy/prfetch/internal/github"
	"github.com/danielolaszy/prfetch/internal/render"
	"github.com/spf13/cobra"
)

var rateLimitCmd = &cobra.Command{
	Use:   "rate-limit",
	Short: "Show the remaining GitHub API quota",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClientFromConfig()
		if err != nil {
			return err
		}
		return runRateLimit(cmd.Context(), cmd.OutOrStdout(), client, newPresenter())
	},
}

func runRateLimit(ctx context.Context, w io.Writer, client github.PullRequestFetcher, presenter *render.Presenter) error {
	limit, err := client.GetRateLimit(ctx)
	if err != nil {
		if github.KindOf(err) == github.KindAuth {
			return fmt.Errorf("authentication failed: check that GITHUB_TOKEN is valid: %w", err)
		}
		return fmt.Errorf("failed to get rate limit: %w", err)
	}

	fmt.Fprintln(w, presenter.RenderRateLimit(limit))
	return nil
}
