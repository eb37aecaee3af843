package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "couponctl",
	Short: "Browse and revert sent seller coupons",
	Long: `couponctl shows the remaining coupon quota of a seller account and the
coupons that were sent and can still be reverted.

The session cookie is taken from --cookie (or COUPONCTL_COOKIE), from the
cookie parameter of --launch-url, or from the credential saved with
"couponctl auth login", in that order.`,
	SilenceUsage:       true,
	PersistentPreRunE:  loadApp,
	PersistentPostRunE: closeApp,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default is $XDG_CONFIG_HOME/couponctl/config.yaml)")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("cookie", os.Getenv("COUPONCTL_COOKIE"), "Session cookie to use instead of the stored one")
	pf.String("launch-url", "", "Launch URL carrying the session cookie in its cookie query parameter")
	pf.Bool("keep-session", false, "Keep the stored session when browse exits")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd)
}
