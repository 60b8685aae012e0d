package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xbm",
		Short: "Manage your X bookmarks from the terminal",
		Long: `xbm lists, adds and removes X (Twitter) bookmarks.

It keeps a local ledger of the bookmarks it has seen, so bookmarks can be
filtered by the day they were first observed.

Examples:
  xbm auth login                 # Authorize xbm in your browser
  xbm list                       # Most recent bookmarks
  xbm list --since yesterday     # Bookmarks first seen since yesterday
  xbm list --since 7-days-ago -m # ... as Markdown
  xbm add https://x.com/user/status/123
  xbm remove 123`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opts.configPath, "config", "c", "", "config file (.json, .yaml or .yml)")
	pf.BoolVarP(&a.opts.json, "json", "j", false, "print JSON")
	pf.BoolVarP(&a.opts.plain, "plain", "p", false, "print tab-separated lines")
	pf.BoolVarP(&a.opts.markdown, "markdown", "m", false, "print Markdown")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "verbose output and debug logging")
	root.MarkFlagsMutuallyExclusive("json", "plain", "markdown")

	root.AddCommand(
		a.listCommand(),
		a.syncCommand(),
		a.addCommand(),
		a.removeCommand(),
		a.authCommand(),
	)
	return root
}
