package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/couponctl/internal/upstream"
	"github.com/sellerdesk/couponctl/internal/view"
	"github.com/sellerdesk/couponctl/pkg/util"
)

// ListCmd prints one page of sent coupons.
type ListCmd struct {
	board Board
}

type ListInput struct {
	Page   int
	Output string
}

type listOutput struct {
	Quota int                `json:"quota"`
	Page  *upstream.ListPage `json:"page"`
}

func (c ListCmd) Run(ctx context.Context, in ListInput) error {
	if err := validateOutput(in.Output); err != nil {
		return err
	}
	c.board.FetchRemainingQuota(ctx)
	if err := c.board.ShowPage(ctx, in.Page).Wait(ctx); err != nil {
		return err
	}
	return printBoard(c.board, in.Output)
}

func printBoard(b Board, output string) error {
	state := b.State()
	if output == "json" {
		page := state.Page
		if page == nil {
			page = &upstream.ListPage{PageIndex: 1, TotalPages: 1, PageSize: upstream.PageSize, Records: []upstream.Record{}}
		}
		return util.PrintPrettyJSON(listOutput{Quota: state.Quota, Page: page})
	}
	if err := view.PrintSnapshot(b.Screen().Frame()); err != nil {
		return err
	}
	if state.Page.Empty() {
		pterm.Info.Println("No revertible coupons found")
	}
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sent coupons that can be reverted",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int("page", 1, "Page to show")
	addOutputFlag(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	output, _ := cmd.Flags().GetString("output")
	c := ListCmd{board: getApp(cmd).dashboard(oneShotAnimator())}
	return c.Run(cmd.Context(), ListInput{Page: page, Output: output})
}
