package util

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", OrDash(""))
	assert.Equal(t, "-", OrDash("  "))
	assert.Equal(t, "A1", OrDash("A1"))
}

func TestJoinOrDash(t *testing.T) {
	assert.Equal(t, "-", JoinOrDash())
	assert.Equal(t, "acw_tc, JSESSIONID", JoinOrDash("acw_tc", "JSESSIONID"))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{72 * time.Hour, "3d ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAge(now.Add(-tt.ago), now))
	}
	assert.Equal(t, "-", FormatAge(time.Time{}, now))
}

func TestWritePrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrettyJSON(&buf, map[string]int{"quota": 7}))
	assert.Equal(t, "{\n  \"quota\": 7\n}\n", buf.String())
}
