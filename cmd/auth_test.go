package cmd

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/couponctl/internal/cookiejar"
	"github.com/sellerdesk/couponctl/internal/credential"
	"github.com/sellerdesk/couponctl/internal/store"
)

type FakeCookieJar struct {
	SaveFunc func(ctx context.Context, host string, cookies []*http.Cookie) error
	ListFunc func(ctx context.Context, host string) ([]cookiejar.Cookie, error)

	saved []*http.Cookie
}

func (f *FakeCookieJar) Save(ctx context.Context, host string, cookies []*http.Cookie) error {
	f.saved = append(f.saved, cookies...)
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, host, cookies)
	}
	return nil
}

func (f *FakeCookieJar) List(ctx context.Context, host string) ([]cookiejar.Cookie, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, host)
	}
	return nil, nil
}

type FakeClearer struct {
	runs int
}

func (f *FakeClearer) Run(context.Context) <-chan struct{} {
	f.runs++
	ch := make(chan struct{})
	close(ch)
	return ch
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestAuthCmd(s store.Store, jar CookieJar) (AuthCmd, *[]string) {
	opened := &[]string{}
	return AuthCmd{
		store:    s,
		jar:      jar,
		creds:    credential.NewResolver(nil, s, nil),
		clearer:  &FakeClearer{},
		host:     "seller.example.com",
		loginURL: "https://seller.example.com/platSellerWeb/dist/dist-gray/index.html",
		open: func(url string) error {
			*opened = append(*opened, url)
			return nil
		},
		prompt: func(string) (string, error) { return "", errors.New("no terminal") },
		now:    func() time.Time { return fixedNow },
	}, opened
}

func TestAuthLogin_StoresCookie(t *testing.T) {
	setupStdoutCapture(t)
	ctx := context.Background()
	s := store.NewMemory()
	jar := &FakeCookieJar{}
	c, opened := newTestAuthCmd(s, jar)

	require.NoError(t, c.Login(ctx, AuthLoginInput{Cookie: " acw_tc=abc123; JSESSIONID=def456 ", Open: true}))

	v, ok, err := s.Get(ctx, store.KeyLoginCookies)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "acw_tc=abc123; JSESSIONID=def456", v)

	fetched, ok, _ := s.Get(ctx, store.KeyCookieFetchTime)
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T09:30:00Z", fetched)

	require.Len(t, jar.saved, 2)
	assert.Equal(t, "acw_tc", jar.saved[0].Name)
	assert.Equal(t, "JSESSIONID", jar.saved[1].Name)

	assert.Equal(t, []string{c.loginURL}, *opened)
	assert.Contains(t, outBuf.String(), "2 cookies")
	assert.NotContains(t, outBuf.String(), "abc123; JSESSIONID")
}

func TestAuthLogin_Prompts(t *testing.T) {
	setupStdoutCapture(t)
	s := store.NewMemory()
	c, _ := newTestAuthCmd(s, &FakeCookieJar{})
	c.prompt = func(string) (string, error) { return "JSESSIONID=xyz", nil }

	require.NoError(t, c.Login(context.Background(), AuthLoginInput{}))

	v, _, _ := s.Get(context.Background(), store.KeyLoginCookies)
	assert.Equal(t, "JSESSIONID=xyz", v)
}

func TestAuthLogin_EmptyCookie(t *testing.T) {
	setupStdoutCapture(t)
	c, _ := newTestAuthCmd(store.NewMemory(), &FakeCookieJar{})
	c.prompt = func(string) (string, error) { return "   ", nil }

	err := c.Login(context.Background(), AuthLoginInput{})
	assert.ErrorIs(t, err, credential.ErrCredentialMissing)
}

func TestAuthLogout(t *testing.T) {
	setupStdoutCapture(t)
	c, _ := newTestAuthCmd(store.NewMemory(), &FakeCookieJar{})
	clearer := &FakeClearer{}
	c.clearer = clearer

	require.NoError(t, c.Logout(context.Background()))

	assert.Equal(t, 1, clearer.runs)
	assert.Contains(t, outBuf.String(), "Session cleared")
}

func TestAuthShow(t *testing.T) {
	setupStdoutCapture(t)
	ctx := context.Background()
	s := store.NewMemory()
	require.NoError(t, s.Set(ctx, store.KeyLoginCookies, "acw_tc=abc123; JSESSIONID=def456"))
	require.NoError(t, s.Set(ctx, store.KeyCookieFetchTime, fixedNow.Add(-3*time.Hour).Format(time.RFC3339)))
	jar := &FakeCookieJar{
		ListFunc: func(context.Context, string) ([]cookiejar.Cookie, error) {
			return []cookiejar.Cookie{{Name: "acw_tc"}, {Name: "JSESSIONID"}}, nil
		},
	}
	c, _ := newTestAuthCmd(s, jar)

	require.NoError(t, c.Show(ctx, AuthShowInput{}))

	out := outBuf.String()
	assert.Contains(t, out, "store")
	assert.Contains(t, out, "3h ago")
	assert.Contains(t, out, "acw_tc, JSESSIONID")
	assert.NotContains(t, out, "abc123")
}

func TestAuthShow_NoCredential(t *testing.T) {
	setupStdoutCapture(t)
	c, _ := newTestAuthCmd(store.NewMemory(), &FakeCookieJar{})

	require.NoError(t, c.Show(context.Background(), AuthShowInput{}))

	assert.Contains(t, outBuf.String(), "No session cookie found")
}
