package dashboard

import (
	"context"

	"github.com/sellerdesk/couponctl/internal/upstream"
)

// FetchPage requests one page of the send list. ok is false when there is
// nothing to show because of a missing credential or any failure; an empty
// but successful list is returned with ok true.
func (d *Dashboard) FetchPage(ctx context.Context, pageIndex int) (*upstream.ListPage, bool) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	cred := d.creds.Resolve(ctx)
	if cred.Empty() {
		d.log.Warn("credential missing", "op", "list")
		return nil, false
	}

	res, err := d.upstream.SendList(ctx, cred, pageIndex)
	success, ok := d.logOutcome("list", res, err)
	if !ok {
		return nil, false
	}
	if !success.HasData() {
		d.log.Error("upstream error", "op", "list", "error", "response has no data")
		return nil, false
	}
	page, err := upstream.ParsePage(success)
	if err != nil {
		d.log.Error("upstream error", "op", "list", "error", err)
		return nil, false
	}
	if page.Empty() {
		d.log.Info("list is empty", "page", pageIndex)
	}
	return page, true
}
