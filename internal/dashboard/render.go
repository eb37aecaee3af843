package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/upstream"
)

func pageInfo(index, total int) string {
	return fmt.Sprintf("Page %d of %d", index, total)
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingText
	}
	return s
}

// Render paints page onto the screen. A nil or empty page shows the
// placeholder with default summaries and both pagination buttons disabled.
//
// Existing rows are dismissed first and the rebuild waits for that dismiss
// to settle, at most DismissPause. The returned batch settles when the new
// content has been revealed.
func (d *Dashboard) Render(ctx context.Context, page *upstream.ListPage) *animate.Batch {
	s := d.screen
	if page.Empty() {
		s.showPlaceholder()
		d.setPage(page)
		d.UpdatePaginationButtons(page)
		return animate.All()
	}

	summary := animate.All(
		d.anim.Reveal(s.TotalSize, page.TotalSize),
		d.anim.Reveal(s.PageIndex, page.PageIndex),
		d.anim.Reveal(s.TotalPages, page.TotalPages),
		d.anim.Reveal(s.PageSize, page.PageSize),
	)
	s.setPageInfo(pageInfo(page.PageIndex, page.TotalPages))

	d.dismissRows(ctx, s.Rows()...)

	quota := d.State().Quota
	rows := lo.Map(page.Records, func(rec upstream.Record, _ int) *Row {
		r := newRow(rec)
		r.Action.Disabled = quota+rec.Count() > QuotaCeiling
		return r
	})
	s.setRows(rows)

	reveals := []*animate.Batch{summary}
	for _, r := range rows {
		reveals = append(reveals,
			d.anim.Reveal(r.ID, orMissing(string(r.Record.ID))),
			d.anim.Reveal(r.Date, orMissing(string(r.Record.CreateTime))),
			d.anim.Reveal(r.Count, r.Record.Count()),
		)
	}

	d.setPage(page)
	d.UpdatePaginationButtons(page)
	return animate.All(reveals...)
}

// dismissRows fades out every cell of rows and waits for them, bounded by
// DismissPause. Rows already leaving are skipped.
func (d *Dashboard) dismissRows(ctx context.Context, rows ...*Row) {
	if len(rows) == 0 {
		return
	}
	var batches []*animate.Batch
	for _, r := range rows {
		if r.Leaving {
			continue
		}
		d.screen.markLeaving(r)
		batches = append(batches, lo.Map(r.cells(), func(c *animate.Cell, _ int) *animate.Batch {
			return d.anim.Dismiss(c)
		})...)
	}

	ctx, cancel := context.WithTimeout(ctx, animate.DismissPause)
	defer cancel()
	_ = animate.All(batches...).Wait(ctx)
}
