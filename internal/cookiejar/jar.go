// Package cookiejar persists the upstream session cookies so they can be
// cleared when a session is torn down.
package cookiejar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	boltstore "github.com/sellerdesk/couponctl/internal/store/bolt"
	bolt "go.etcd.io/bbolt"
)

// Cookie is the persisted form of a session cookie.
type Cookie struct {
	Host    string    `json:"host"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	SavedAt time.Time `json:"savedAt"`
}

// Jar is a bbolt-backed cookie store keyed by host and cookie name.
type Jar struct {
	db *bolt.DB
}

// New wraps a bolt handle opened with boltstore.Open.
func New(db *bolt.DB) *Jar {
	return &Jar{db: db}
}

func key(host, name string) []byte {
	return []byte(host + "|" + name)
}

// Save stores the cookies for host, replacing entries with the same name.
func (j *Jar) Save(ctx context.Context, host string, cookies []*http.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	return j.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(boltstore.BucketCookies)
		for _, c := range cookies {
			payload, err := json.Marshal(Cookie{Host: host, Name: c.Name, Value: c.Value, SavedAt: now})
			if err != nil {
				return err
			}
			if err := bkt.Put(key(host, c.Name), payload); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the cookies stored for host.
func (j *Jar) List(ctx context.Context, host string) ([]Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var cookies []Cookie
	prefix := []byte(host + "|")
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(boltstore.BucketCookies).Cursor()
		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, v = c.Next() {
			var cookie Cookie
			if err := json.Unmarshal(v, &cookie); err != nil {
				return fmt.Errorf("decode cookie %s: %w", k, err)
			}
			cookies = append(cookies, cookie)
		}
		return nil
	})
	return cookies, err
}

// Remove deletes one cookie. Removing an absent cookie is not an error.
func (j *Jar) Remove(ctx context.Context, host, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltstore.BucketCookies).Delete(key(host, name))
	})
}

// Parse splits a Cookie header value ("a=1; b=2") into cookies. Malformed
// pairs are skipped.
func Parse(header string) []*http.Cookie {
	cookies, err := http.ParseCookie(header)
	if err == nil {
		return cookies
	}
	var out []*http.Cookie
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}
