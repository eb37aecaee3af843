// Package credential resolves the session token used for upstream calls.
//
// A token handed over for this run (--cookie or the launch URL query) always
// wins; the persistent store is only consulted when no transient token exists.
package credential

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sellerdesk/couponctl/internal/store"
)

// QueryParam is the launch URL query parameter carrying the token.
const QueryParam = "cookie"

// ErrCredentialMissing marks an operation that had no token to send.
var ErrCredentialMissing = errors.New("credential not found")

// Source records where a credential came from.
type Source string

const (
	SourceNone  Source = ""
	SourceFlag  Source = "flag"
	SourceQuery Source = "query"
	SourceStore Source = "store"
)

// Credential is an opaque session token. Its contents are never validated.
type Credential struct {
	Value  string
	Source Source
}

// Empty reports whether no token was found.
func (c Credential) Empty() bool {
	return c.Value == ""
}

// Masked returns a shortened form safe to print.
func (c Credential) Masked() string {
	v := []rune(c.Value)
	if len(v) == 0 {
		return ""
	}
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return string(v[:4]) + "…" + string(v[len(v)-4:])
}

// Resolver reads the credential from the override, then the launch query,
// then the store.
type Resolver struct {
	// Override is a raw cookie string used as is. It is never unescaped.
	Override string
	Query    url.Values
	Store    store.Store
	Log      *slog.Logger
}

// NewResolver builds a resolver. query may be nil.
func NewResolver(query url.Values, s store.Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{Query: query, Store: s, Log: log}
}

// QueryFromLaunchURL extracts the query values of a launch URL.
func QueryFromLaunchURL(launchURL string) (url.Values, error) {
	if launchURL == "" {
		return url.Values{}, nil
	}
	u, err := url.Parse(launchURL)
	if err != nil {
		return nil, err
	}
	return u.Query(), nil
}

// Resolve returns the credential, or an empty one when none exists. A missing
// credential is a valid outcome, not an error.
func (r *Resolver) Resolve(ctx context.Context) Credential {
	if r.Override != "" {
		r.Log.Debug("using credential from --cookie")
		return Credential{Value: r.Override, Source: SourceFlag}
	}
	if v := r.fromQuery(); v != "" {
		r.Log.Debug("using credential from launch query")
		return Credential{Value: v, Source: SourceQuery}
	}
	if r.Store == nil {
		return Credential{}
	}
	v, ok, err := r.Store.Get(ctx, store.KeyLoginCookies)
	if err != nil {
		r.Log.Warn("credential store read failed", "error", err)
		return Credential{}
	}
	if !ok || v == "" {
		return Credential{}
	}
	r.Log.Debug("using credential from store")
	return Credential{Value: v, Source: SourceStore}
}

func (r *Resolver) fromQuery() string {
	if r.Query == nil {
		return ""
	}
	raw := r.Query.Get(QueryParam)
	if raw == "" {
		return ""
	}
	// The launch page encodes the token once more on top of URL encoding.
	// PathUnescape keeps a literal '+' as is.
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
