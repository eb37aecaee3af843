package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/dashboard"
)

// Board is the subset of the dashboard the one-shot commands use.
type Board interface {
	FetchRemainingQuota(ctx context.Context) int
	ShowPage(ctx context.Context, pageIndex int) *animate.Batch
	RevertRecord(ctx context.Context, id string) (*animate.Batch, error)
	State() dashboard.State
	Screen() *dashboard.Screen
}

// addOutputFlag adds -o/--output to cmd along with its shell completion.
func addOutputFlag(cmd *cobra.Command) {
	outputFlag(cmd.Flags())
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutput)
}

func outputFlag(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "Output format (json)")
}

func validateOutput(output string) error {
	if output != "" && output != "json" {
		return fmt.Errorf("unsupported --output value: use json")
	}
	return nil
}

// oneShotAnimator settles every transition at once; one-shot commands only
// print the final frame.
func oneShotAnimator() *animate.Animator {
	return animate.New(animate.ImmediateScheduler{})
}
