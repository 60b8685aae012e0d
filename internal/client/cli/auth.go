package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage X authorization",
	}
	cmd.AddCommand(a.loginCommand(), a.statusCommand(), a.logoutCommand())
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize xbm in your browser",
		Long: `Authorize xbm with OAuth 2.0 (PKCE).

A local callback server listens on 127.0.0.1 while you approve access in the
browser. The callback URL registered for your app must match
http://127.0.0.1:<port>/callback.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCredentials(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = a.config.CallbackPort
			}
			if _, err := a.authService.Login(cmd.Context(), port); err != nil {
				return err
			}
			return a.out.Message("Logged in.")
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "callback port (default from config, 8739)")
	return cmd
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored authorization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.authService.Status(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.AuthStatus(st)
		},
	}
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and delete the stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			had, err := a.authService.Logout(cmd.Context())
			if err != nil {
				return err
			}
			if !had {
				return a.out.Message("Not logged in.")
			}
			return a.out.Message("Logged out.")
		},
	}
}
