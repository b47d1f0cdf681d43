package stats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHash(t *testing.T) {
	m := parseHash(map[string]string{
		"live":         "3",
		"fallback":     "2",
		"simulated":    "oops",
		"invalid":      "1",
		"last_updated": "1700000000",
	})
	assert.Equal(t, 3, m.LiveHits)
	assert.Equal(t, 2, m.Fallbacks)
	assert.Zero(t, m.Simulated)
	assert.Equal(t, 1, m.InvalidInputs)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), m.LastUpdated)

	assert.Equal(t, MonthlyStats{}, parseHash(nil))
	assert.Equal(t, "insights:stats:2025-03", redisKey("2025-03"))
}

func TestConnect(t *testing.T) {
	c, err := Connect("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Options().DB)
	require.NoError(t, c.Close())

	_, err = Connect("redis://:bad url")
	assert.Error(t, err)
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(addr)
	require.NoError(t, err)

	s := NewRedisStorage(client)
	defer s.Close()
	month := time.Date(2001, 1, 15, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return month }

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, client.Del(ctx, redisKey("2001-01")).Err())

	require.NoError(t, s.Record(ctx, OutcomeLive))
	require.NoError(t, s.Record(ctx, OutcomeLive))
	require.NoError(t, s.Record(ctx, OutcomeFallback))

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, cur.LiveHits)
	assert.Equal(t, 1, cur.Fallbacks)
	assert.Equal(t, month.Unix(), cur.LastUpdated.Unix())
}
