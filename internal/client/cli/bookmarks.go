package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	defaultListMax = 10
	maxListMax     = 100
)

func (a *App) listCommand() *cobra.Command {
	var (
		maxResults   int
		since, until string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarks",
		Long: `List the most recent bookmarks.

With --since or --until, xbm syncs the ledger first and lists the bookmarks
first seen within the range, newest first. Dates are today, yesterday,
N-days-ago or YYYY-MM-DD; both ends are inclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if since == "" && until == "" {
				if maxResults < 1 || maxResults > maxListMax {
					return fmt.Errorf("--max must be between 1 and %d", maxListMax)
				}
				entries, err := a.bookmarks.Recent(ctx, maxResults)
				if err != nil {
					return err
				}
				return a.out.Bookmarks("Recent bookmarks", entries)
			}

			entries, err := a.bookmarks.Range(ctx, since, until)
			if err != nil {
				return err
			}
			return a.out.Bookmarks(rangeTitle(since, until), entries)
		},
	}

	f := cmd.Flags()
	f.IntVar(&maxResults, "max", defaultListMax, "number of recent bookmarks to show (1-100)")
	f.StringVar(&since, "since", "", "first day of the range")
	f.StringVar(&until, "until", "", "last day of the range (default today)")
	return cmd
}

func rangeTitle(since, until string) string {
	switch {
	case since != "" && until != "":
		return fmt.Sprintf("Bookmarks from %s to %s", since, until)
	case since != "":
		return fmt.Sprintf("Bookmarks since %s", since)
	default:
		return fmt.Sprintf("Bookmarks until %s", until)
	}
}

func (a *App) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the local bookmark ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			res, err := a.bookmarks.Sync(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.SyncResult(res)
		},
	}
}

func (a *App) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id|url>",
		Short: "Bookmark a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			id, err := a.bookmarks.Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.Action(id, true)
		},
	}
}

func (a *App) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id|url>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			id, err := a.bookmarks.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.Action(id, false)
		},
	}
}
