package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/upstream"
)

// ErrPageOutOfRange is returned by GoTo for a page outside 1..totalPages.
var ErrPageOutOfRange = errors.New("page out of range")

// UpdatePaginationButtons enables prev and next according to page. Both are
// disabled for a nil or empty page.
func (d *Dashboard) UpdatePaginationButtons(page *upstream.ListPage) {
	prev := Button{Label: "Prev", Disabled: true}
	next := Button{Label: "Next", Disabled: true}
	if !page.Empty() {
		prev.Disabled = page.PageIndex <= 1
		prev.Target = page.PageIndex - 1
		next.Disabled = page.PageIndex >= page.TotalPages
		next.Target = page.PageIndex + 1
	}
	d.screen.setButtons(prev, next)
}

// Prev shows the previous page. ok is false when the button is disabled.
func (d *Dashboard) Prev(ctx context.Context) (b *animate.Batch, ok bool) {
	prev, _ := d.screen.Buttons()
	if prev.Disabled {
		return animate.All(), false
	}
	return d.ShowPage(ctx, prev.Target), true
}

// Next shows the next page. ok is false when the button is disabled.
func (d *Dashboard) Next(ctx context.Context) (b *animate.Batch, ok bool) {
	_, next := d.screen.Buttons()
	if next.Disabled {
		return animate.All(), false
	}
	return d.ShowPage(ctx, next.Target), true
}

// GoTo shows page n. n must lie within the last known page count.
func (d *Dashboard) GoTo(ctx context.Context, n int) (*animate.Batch, error) {
	total := 1
	if p := d.State().Page; !p.Empty() {
		total = p.TotalPages
	}
	if n < 1 || n > total {
		return animate.All(), fmt.Errorf("%w: %d (1-%d)", ErrPageOutOfRange, n, total)
	}
	return d.ShowPage(ctx, n), nil
}
