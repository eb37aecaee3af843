package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/gateway"
)

var (
	ErrNoSuchRow      = errors.New("no such row")
	ErrMissingID      = errors.New("record has no id")
	ErrActionDisabled = errors.New("revert would exceed the quota ceiling")
	ErrNotReverted    = errors.New("revert failed")
)

// Revert reverts the record shown at 1-based row n. On success the row is
// dismissed, then the quota and the current page are fetched again. On
// failure nothing on screen changes.
func (d *Dashboard) Revert(ctx context.Context, n int) (*animate.Batch, error) {
	row, ok := d.screen.Row(n)
	if !ok {
		return animate.All(), fmt.Errorf("%w: %d", ErrNoSuchRow, n)
	}
	id := strings.TrimSpace(row.ID.Text())
	if id == "" || id == missingText {
		d.log.Warn("revert aborted", "row", n, "error", ErrMissingID)
		return animate.All(), ErrMissingID
	}
	if row.Action.Disabled {
		return animate.All(), ErrActionDisabled
	}
	return d.revert(ctx, id, row)
}

// RevertRecord reverts a record by id without a rendered row.
func (d *Dashboard) RevertRecord(ctx context.Context, id string) (*animate.Batch, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animate.All(), ErrMissingID
	}
	return d.revert(ctx, id, nil)
}

func (d *Dashboard) revert(ctx context.Context, id string, row *Row) (*animate.Batch, error) {
	cred := d.creds.Resolve(ctx)
	res, err := d.upstream.Revert(ctx, cred, id)
	if _, ok := d.logOutcome("revert", res, err); !ok {
		if err == nil {
			err = gateway.Err(res)
		}
		return animate.All(), fmt.Errorf("%w: %w", ErrNotReverted, err)
	}
	d.log.Info("record reverted", "id", id)

	if row != nil {
		d.dismissRows(ctx, row)
	}

	d.FetchRemainingQuota(ctx)
	return d.ShowPage(ctx, d.State().CurrentPage), nil
}
