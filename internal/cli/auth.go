package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/crodash/internal/adapters/ideation"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize crodash against the ideation platform",
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the authorization URL to open in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		oc := oauthConfig(cfg.Ideation)
		if oc.ClientID == "" || oc.AuthURL == "" {
			return fmt.Errorf("CRODASH_IDEATION_CLIENT_ID and CRODASH_IDEATION_AUTH_URL are required")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ideation.AuthURL(oc))
		return nil
	},
}

var authExchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Exchange an authorization code for a stored token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oc := oauthConfig(cfg.Ideation)
		if oc.TokenURL == "" {
			return fmt.Errorf("CRODASH_IDEATION_TOKEN_URL is required")
		}
		file, err := tokenStore(cfg.Ideation)
		if err != nil {
			return err
		}
		tok, err := ideation.Exchange(cmd.Context(), oc, file, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s (expires %s)\n", file.Path, tok.Expiry.Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authExchangeCmd)
}
