package dashboard

import (
	"context"

	"github.com/sellerdesk/couponctl/internal/upstream"
)

// FetchRemainingQuota shows 0 at once, asks the upstream for the remaining
// quota and reveals the final value. Any failure leaves 0.
func (d *Dashboard) FetchRemainingQuota(ctx context.Context) int {
	d.anim.Reveal(d.screen.Quota, 0)

	value := d.remainingQuota(ctx)
	d.setQuota(value)
	d.anim.Reveal(d.screen.Quota, value)
	return value
}

func (d *Dashboard) remainingQuota(ctx context.Context) int {
	cred := d.creds.Resolve(ctx)
	if cred.Empty() {
		d.log.Warn("credential missing", "op", "quota")
		return 0
	}

	res, err := d.upstream.Quota(ctx, cred)
	success, ok := d.logOutcome("quota", res, err)
	if !ok {
		return 0
	}
	value, err := upstream.ParseQuota(success)
	if err != nil {
		d.log.Error("upstream error", "op", "quota", "error", err)
		return 0
	}
	d.log.Debug("remaining quota", "value", value)
	return value
}
