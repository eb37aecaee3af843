// Package session clears the stored session when the user leaves.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sellerdesk/couponctl/internal/notify"
	"github.com/sellerdesk/couponctl/internal/store"
)

// ExitWait bounds how long exit waits for a teardown.
const ExitWait = 2 * time.Second

// CookieRemover deletes one persisted cookie.
type CookieRemover interface {
	Remove(ctx context.Context, host, name string) error
}

// Teardown removes the stored credential, the named session cookies for the
// upstream host, and announces the reset. Every step is best effort.
type Teardown struct {
	Store       store.Store
	Cookies     CookieRemover
	Host        string
	CookieNames []string
	Bus         notify.Bus
	Log         *slog.Logger

	once sync.Once
	done chan struct{}
}

// Run starts the teardown and returns a channel closed once every step has
// finished. Later calls return the same channel without running again.
func (t *Teardown) Run(ctx context.Context) <-chan struct{} {
	t.once.Do(func() {
		t.done = make(chan struct{})
		go t.run(context.WithoutCancel(ctx))
	})
	return t.done
}

func (t *Teardown) run(ctx context.Context) {
	defer close(t.done)
	log := t.Log
	if log == nil {
		log = slog.Default()
	}

	var wg sync.WaitGroup
	if t.Store != nil {
		wg.Go(func() {
			if err := t.Store.Remove(ctx, store.KeyLoginCookies, store.KeyCookieFetchTime); err != nil {
				log.Warn("failed to clear stored credential", "error", err)
			}
		})
	}
	if t.Cookies != nil {
		for _, name := range t.CookieNames {
			wg.Go(func() {
				if err := t.Cookies.Remove(ctx, t.Host, name); err != nil {
					log.Warn("failed to remove cookie", "host", t.Host, "name", name, "error", err)
				}
			})
		}
	}
	if t.Bus != nil {
		wg.Go(func() {
			t.Bus.Publish(notify.New(notify.TypeSessionReset, nil))
		})
	}
	wg.Wait()
	log.Debug("session cleared", "host", t.Host)
}

// Wait blocks until done closes or d passes, and reports whether the
// teardown finished in time.
func Wait(done <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
