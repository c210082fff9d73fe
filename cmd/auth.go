package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taslimamindia/inboxpilot/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Run the OAuth authorization flow for a Google account.

"auth url" prints the authorization URL to visit; "auth save" exchanges the
code from the consent screen for a token and caches it for the account.
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set in the environment.`,
	}

	cmd.PersistentFlags().StringVar(&account, "account", "default", "Google account name to authorize (default: 'default')")

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(google.GetAuthURLForAccount(account))
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save [auth-code]",
		Short: "Exchange an authorization code and cache the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := google.SaveTokenForAccount(ctx, account, args[0]); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			fmt.Printf("Authorization successful for account %q.\n", account)
			return nil
		},
	}

	cmd.AddCommand(urlCmd, saveCmd)
	return cmd
}
