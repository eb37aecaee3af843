package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/couponctl/internal/notify"
	"github.com/sellerdesk/couponctl/internal/store"
)

type FakeCookies struct {
	RemoveFunc func(ctx context.Context, host, name string) error

	mu      sync.Mutex
	removed []string
}

func (f *FakeCookies) Remove(ctx context.Context, host, name string) error {
	f.mu.Lock()
	f.removed = append(f.removed, host+"|"+name)
	f.mu.Unlock()
	if f.RemoveFunc != nil {
		return f.RemoveFunc(ctx, host, name)
	}
	return nil
}

type failingStore struct {
	store.Store
}

func (failingStore) Remove(context.Context, ...string) error {
	return errors.New("keychain locked")
}

func TestTeardown_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Set(ctx, store.KeyLoginCookies, "acw_tc=1"))
	require.NoError(t, s.Set(ctx, store.KeyCookieFetchTime, "2024-01-01T00:00:00Z"))
	require.NoError(t, s.Set(ctx, "other", "kept"))

	cookies := &FakeCookies{}
	bus := notify.NewBus(nil)
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	td := &Teardown{
		Store:       s,
		Cookies:     cookies,
		Host:        "seller.example.com",
		CookieNames: []string{"acw_tc", "JSESSIONID"},
		Bus:         bus,
	}
	require.True(t, Wait(td.Run(ctx), time.Second))

	_, ok, err := s.Get(ctx, store.KeyLoginCookies)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, store.KeyCookieFetchTime)
	assert.False(t, ok)
	v, ok, _ := s.Get(ctx, "other")
	assert.True(t, ok)
	assert.Equal(t, "kept", v)

	assert.ElementsMatch(t, []string{"seller.example.com|acw_tc", "seller.example.com|JSESSIONID"}, cookies.removed)

	select {
	case e := <-events:
		assert.Equal(t, notify.TypeSessionReset, e.Type)
	default:
		t.Fatal("expected a session.reset event")
	}
}

func TestTeardown_FailuresAreSwallowed(t *testing.T) {
	cookies := &FakeCookies{
		RemoveFunc: func(context.Context, string, string) error { return errors.New("db closed") },
	}
	td := &Teardown{
		Store:       failingStore{},
		Cookies:     cookies,
		CookieNames: []string{"acw_tc"},
	}
	assert.True(t, Wait(td.Run(context.Background()), time.Second))
	assert.Len(t, cookies.removed, 1)
}

func TestTeardown_RunsOnce(t *testing.T) {
	cookies := &FakeCookies{}
	td := &Teardown{Cookies: cookies, CookieNames: []string{"JSESSIONID"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := td.Run(ctx)
	second := td.Run(ctx)
	assert.Equal(t, first, second)
	require.True(t, Wait(first, time.Second))
	assert.Len(t, cookies.removed, 1)
}

func TestWait_TimesOut(t *testing.T) {
	assert.False(t, Wait(make(chan struct{}), 10*time.Millisecond))
}
