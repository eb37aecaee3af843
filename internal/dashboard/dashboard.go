// Package dashboard fetches the remaining quota and the sent-coupon list,
// renders them onto a Screen and handles the row and pagination actions.
//
// Every failure degrades to a default visual state (0 or "No data") and is
// logged here; nothing escapes a fetch or render entry point.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sellerdesk/couponctl/internal/animate"
	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/gateway"
	"github.com/sellerdesk/couponctl/internal/notify"
	"github.com/sellerdesk/couponctl/internal/upstream"
)

// QuotaCeiling is the largest quota+count a record may reach and still be
// revertible.
const QuotaCeiling = 30

// Upstream is the subset of the endpoint client the dashboard uses.
type Upstream interface {
	Quota(ctx context.Context, cred credential.Credential) (gateway.Result, error)
	SendList(ctx context.Context, cred credential.Credential, pageIndex int) (gateway.Result, error)
	Revert(ctx context.Context, cred credential.Credential, id string) (gateway.Result, error)
}

// CredentialSource resolves the session token.
type CredentialSource interface {
	Resolve(ctx context.Context) credential.Credential
}

// State is what the dashboard knows, kept apart from what the screen shows.
type State struct {
	Quota       int
	Page        *upstream.ListPage
	CurrentPage int
}

// Dashboard owns the screen and the state.
type Dashboard struct {
	upstream Upstream
	creds    CredentialSource
	anim     *animate.Animator
	screen   *Screen
	bus      notify.Bus
	log      *slog.Logger

	mu    sync.RWMutex
	state State
}

// Option customizes a Dashboard.
type Option func(*Dashboard)

// WithBus publishes credential notifications on bus.
func WithBus(bus notify.Bus) Option {
	return func(d *Dashboard) { d.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dashboard) { d.log = log }
}

// WithAnimator replaces the default real-time animator.
func WithAnimator(a *animate.Animator) Option {
	return func(d *Dashboard) { d.anim = a }
}

// New builds a dashboard with a fresh screen.
func New(up Upstream, creds CredentialSource, opts ...Option) *Dashboard {
	d := &Dashboard{
		upstream: up,
		creds:    creds,
		anim:     animate.New(nil),
		screen:   NewScreen(),
		log:      slog.Default(),
		state:    State{CurrentPage: 1},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Screen returns the render target.
func (d *Dashboard) Screen() *Screen {
	return d.screen
}

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Dashboard) setQuota(v int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Quota = v
}

func (d *Dashboard) setPage(p *upstream.ListPage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Page = p
	if p.Empty() {
		d.state.CurrentPage = 1
		return
	}
	d.state.CurrentPage = p.PageIndex
}

// Init runs the start-up sequence: announce the credential, fetch the quota,
// then the first page.
func (d *Dashboard) Init(ctx context.Context) *animate.Batch {
	d.announceCredential(ctx)
	d.FetchRemainingQuota(ctx)
	b := d.ShowPage(ctx, 1)
	d.screen.setLoaded()
	return b
}

// Refresh re-fetches the quota and the first page.
func (d *Dashboard) Refresh(ctx context.Context) *animate.Batch {
	d.FetchRemainingQuota(ctx)
	return d.ShowPage(ctx, 1)
}

// ShowPage fetches a page and renders it.
func (d *Dashboard) ShowPage(ctx context.Context, pageIndex int) *animate.Batch {
	page, _ := d.FetchPage(ctx, pageIndex)
	return d.Render(ctx, page)
}

func (d *Dashboard) announceCredential(ctx context.Context) {
	if d.bus == nil {
		return
	}
	cred := d.creds.Resolve(ctx)
	d.bus.Publish(notify.New(notify.TypeCredentialShow, notify.CredentialPayload{
		Masked: cred.Masked(),
		Source: string(cred.Source),
	}))
}

// logOutcome logs a non-success call per error category and reports whether
// the result was a success.
func (d *Dashboard) logOutcome(op string, res gateway.Result, err error) (gateway.Success, bool) {
	if err != nil {
		d.log.Error("transport failure", "op", op, "error", err)
		return gateway.Success{}, false
	}
	switch v := res.(type) {
	case gateway.Success:
		return v, true
	case gateway.AuthRejected:
		d.log.Warn("upstream rejected session", "op", op, "message", v.Message)
	case gateway.Failure:
		d.log.Error("upstream error", "op", op, "code", v.Code, "message", v.Message)
	default:
		d.log.Error("upstream error", "op", op, "result", fmt.Sprintf("%T", res))
	}
	return gateway.Success{}, false
}
