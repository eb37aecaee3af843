package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/dashboard"
	"github.com/sellerdesk/couponctl/internal/notify"
	"github.com/sellerdesk/couponctl/internal/session"
	"github.com/sellerdesk/couponctl/internal/view"
)

// Navigator is the interactive surface of the dashboard.
type Navigator interface {
	Init(ctx context.Context) *animate.Batch
	Refresh(ctx context.Context) *animate.Batch
	Prev(ctx context.Context) (*animate.Batch, bool)
	Next(ctx context.Context) (*animate.Batch, bool)
	GoTo(ctx context.Context, n int) (*animate.Batch, error)
	Revert(ctx context.Context, row int) (*animate.Batch, error)
	Screen() *dashboard.Screen
}

// Painter stops a running live view.
type Painter interface {
	Stop() error
}

// BrowseCmd runs the interactive dashboard.
type BrowseCmd struct {
	board       Navigator
	bus         notify.Bus
	clearer     SessionClearer
	keepSession bool
	in          io.Reader
	paint       func(*dashboard.Screen) (Painter, error)
}

const browseHelp = `Commands:
  n, next        Next page
  p, prev        Previous page
  g, goto N      Go to page N
  r, revert N    Revert the record in row N
  refresh        Reload quota and the first page
  help           Show this help
  q, quit        Exit`

func (c BrowseCmd) Run(ctx context.Context) error {
	if !c.keepSession {
		defer c.clearSession(ctx)
	}
	if c.bus != nil {
		view.Footer(ctx, c.bus, c.board.Screen())
	}

	if err := c.paintWhile(ctx, c.board.Init); err != nil {
		return err
	}
	pterm.Info.Println("Type help for commands, q to quit.")

	lines := readLines(ctx, c.in)
	for {
		pterm.Print(pterm.Cyan("> "))
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			pterm.Println()
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			pterm.Println()
			return nil
		}

		quit, err := c.handle(ctx, line)
		if err != nil {
			pterm.Error.Println(err)
		}
		if quit {
			return nil
		}
	}
}

func (c BrowseCmd) handle(ctx context.Context, line string) (quit bool, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false, nil
	}

	switch strings.ToLower(parts[0]) {
	case "q", "quit", "exit":
		return true, nil

	case "help", "?":
		pterm.Println(browseHelp)

	case "n", "next":
		moved := true
		err = c.paintWhile(ctx, func(ctx context.Context) *animate.Batch {
			var b *animate.Batch
			b, moved = c.board.Next(ctx)
			return b
		})
		if err == nil && !moved {
			pterm.Warning.Println("Already on the last page")
		}

	case "p", "prev":
		moved := true
		err = c.paintWhile(ctx, func(ctx context.Context) *animate.Batch {
			var b *animate.Batch
			b, moved = c.board.Prev(ctx)
			return b
		})
		if err == nil && !moved {
			pterm.Warning.Println("Already on the first page")
		}

	case "g", "goto":
		n, perr := rowArg(parts)
		if perr != nil {
			return false, perr
		}
		err = c.paintWhileErr(ctx, func(ctx context.Context) (*animate.Batch, error) {
			return c.board.GoTo(ctx, n)
		})

	case "r", "revert":
		n, perr := rowArg(parts)
		if perr != nil {
			return false, perr
		}
		err = c.paintWhileErr(ctx, func(ctx context.Context) (*animate.Batch, error) {
			return c.board.Revert(ctx, n)
		})
		if err == nil {
			pterm.Success.Printfln("Row %d reverted", n)
		}

	case "refresh":
		err = c.paintWhile(ctx, c.board.Refresh)

	default:
		return false, fmt.Errorf("unknown command %q (type help)", parts[0])
	}
	return false, err
}

func rowArg(parts []string) (int, error) {
	if len(parts) != 2 {
		return 0, fmt.Errorf("%s needs a number", parts[0])
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", parts[1])
	}
	return n, nil
}

// paintWhile paints the screen while op runs and until its transitions settle.
func (c BrowseCmd) paintWhile(ctx context.Context, op func(context.Context) *animate.Batch) error {
	return c.paintWhileErr(ctx, func(ctx context.Context) (*animate.Batch, error) {
		return op(ctx), nil
	})
}

func (c BrowseCmd) paintWhileErr(ctx context.Context, op func(context.Context) (*animate.Batch, error)) error {
	p, err := c.paint(c.board.Screen())
	if err != nil {
		return err
	}
	b, opErr := op(ctx)
	if b != nil {
		if err := b.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
			opErr = errors.Join(opErr, err)
		}
	}
	return errors.Join(opErr, p.Stop())
}

func (c BrowseCmd) clearSession(ctx context.Context) {
	if !session.Wait(c.clearer.Run(ctx), session.ExitWait) {
		pterm.Warning.Println("Session cleanup did not finish in time")
	}
}

func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive view of quota and sent coupons",
	Long: `Show the remaining quota and the revertible sent coupons, with paging and
per-row revert.

The stored session is cleared when browse exits, including on Ctrl-C,
SIGTERM and SIGHUP, unless --keep-session is set.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a := getApp(cmd)
	keep, _ := cmd.Flags().GetBool("keep-session")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	c := BrowseCmd{
		board:       a.dashboard(animate.New(nil)),
		bus:         a.bus,
		clearer:     a.teardown(),
		keepSession: keep || !a.cfg.Session.ClearOnExit,
		in:          os.Stdin,
		paint: func(s *dashboard.Screen) (Painter, error) {
			return view.Start(s)
		},
	}
	return c.Run(ctx)
}
