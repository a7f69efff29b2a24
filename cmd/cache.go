package cmd

import (
	"fmt"
	"io"

	"github.com/danielolaszy/prfetch/internal/cache"
	"github.com/danielolaszy/prfetch/pkg/models"
	"github.com/spf13/cobra"
)

// cacheCmd inspects or clears the in-memory result cache. The cache lives
// only as long as the process, so a fresh invocation starts empty.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or clear the in-memory result cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearAll, err := cmd.Flags().GetBool("clear")
		if err != nil {
			return err
		}
		stats, err := cmd.Flags().GetBool("stats")
		if err != nil {
			return err
		}
		return runCache(cmd.OutOrStdout(), resultCache, clearAll, stats)
	},
}

func init() {
	cacheCmd.Flags().Bool("clear", false, "Remove every cached result")
	cacheCmd.Flags().Bool("stats", false, "Show the number of cached results and their keys")
}

func runCache(w io.Writer, store *cache.Cache[models.FetchResult], clearAll, stats bool) error {
	if !clearAll && !stats {
		return fmt.Errorf("specify --clear or --stats")
	}

	if stats {
		s := store.Stats()
		fmt.Fprintf(w, "Cached entries: %d\n", s.Count)
		for _, key := range s.Keys {
			fmt.Fprintf(w, "  - %s\n", key)
		}
	}

	if clearAll {
		store.Clear()
		fmt.Fprintln(w, "Cache cleared")
	}

	return nil
}
