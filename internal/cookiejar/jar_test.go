package cookiejar

import (
	"context"
	"path/filepath"
	"testing"

	boltstore "github.com/sellerdesk/couponctl/internal/store/bolt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJar(t *testing.T) *Jar {
	t.Helper()
	db, err := boltstore.Open(filepath.Join(t.TempDir(), "jar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestJar_SaveListRemove(t *testing.T) {
	jar := newJar(t)
	ctx := context.Background()
	host := "blackcat2.vankeservice.com"

	require.NoError(t, jar.Save(ctx, host, Parse("acw_tc=abc; JSESSIONID=xyz")))
	require.NoError(t, jar.Save(ctx, "other.example.com", Parse("JSESSIONID=other")))

	cookies, err := jar.List(ctx, host)
	require.NoError(t, err)
	require.Len(t, cookies, 2)
	names := []string{cookies[0].Name, cookies[1].Name}
	assert.ElementsMatch(t, []string{"acw_tc", "JSESSIONID"}, names)

	require.NoError(t, jar.Remove(ctx, host, "JSESSIONID"))
	require.NoError(t, jar.Remove(ctx, host, "missing"))

	cookies, err = jar.List(ctx, host)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "acw_tc", cookies[0].Name)

	other, err := jar.List(ctx, "other.example.com")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestParse(t *testing.T) {
	tests := []struct {
		header string
		want   map[string]string
	}{
		{"acw_tc=1; JSESSIONID=2", map[string]string{"acw_tc": "1", "JSESSIONID": "2"}},
		{"JSESSIONID=2", map[string]string{"JSESSIONID": "2"}},
		{"garbage; JSESSIONID=2", map[string]string{"JSESSIONID": "2"}},
		{"", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := map[string]string{}
			for _, c := range Parse(tt.header) {
				got[c.Name] = c.Value
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
