package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// RevertCmd reverts one sent coupon by record id.
type RevertCmd struct {
	board Board
}

type RevertInput struct {
	ID     string
	Output string
}

func (c RevertCmd) Run(ctx context.Context, in RevertInput) error {
	if err := validateOutput(in.Output); err != nil {
		return err
	}
	b, err := c.board.RevertRecord(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("record %s: %w", in.ID, err)
	}
	if err := b.Wait(ctx); err != nil {
		return err
	}
	if in.Output != "json" {
		pterm.Success.Printfln("Record %s reverted", in.ID)
	}
	return printBoard(c.board, in.Output)
}

var revertCmd = &cobra.Command{
	Use:   "revert <id>",
	Short: "Revert a sent coupon",
	Long:  "Revert a sent coupon record, then show the updated quota and first page.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevert,
}

func init() {
	addOutputFlag(revertCmd)
	rootCmd.AddCommand(revertCmd)
}

func runRevert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	c := RevertCmd{board: getApp(cmd).dashboard(oneShotAnimator())}
	return c.Run(cmd.Context(), RevertInput{ID: args[0], Output: output})
}
