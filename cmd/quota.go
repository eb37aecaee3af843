package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/couponctl/pkg/util"
)

// QuotaCmd prints the remaining quota.
type QuotaCmd struct {
	board Board
}

type QuotaInput struct {
	Output string
}

type quotaOutput struct {
	Remaining int `json:"remaining"`
}

func (c QuotaCmd) Run(ctx context.Context, in QuotaInput) error {
	if err := validateOutput(in.Output); err != nil {
		return err
	}
	remaining := c.board.FetchRemainingQuota(ctx)
	if in.Output == "json" {
		return util.PrintPrettyJSON(quotaOutput{Remaining: remaining})
	}
	pterm.Info.Printfln("Remaining quota: %d", remaining)
	return nil
}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining coupon quota",
	Long:  "Fetch the remaining coupon quota. Failures are logged and shown as 0.",
	Args:  cobra.NoArgs,
	RunE:  runQuota,
}

func init() {
	addOutputFlag(quotaCmd)
	rootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	c := QuotaCmd{board: getApp(cmd).dashboard(oneShotAnimator())}
	return c.Run(cmd.Context(), QuotaInput{Output: output})
}
