package store

import (
	"context"
	"errors"
)

// Field names shared with the login flow.
const (
	KeyLoginCookies    = "loginCookies"
	KeyCookieFetchTime = "cookieFetchTime"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store abstracts the persistent key-value store holding the login credential.
// Get reports absence with ok=false and a nil error. Removing an absent key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}
