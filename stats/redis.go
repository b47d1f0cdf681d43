package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "insights:stats:"
	redisRetention = 400 * 24 * time.Hour
	fieldUpdated   = "last_updated"
)

// Connect returns a client for an address or a redis:// URL
func Connect(addr string) (*redis.Client, error) {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

// RedisStorage shares monthly counters between instances through one hash
// per month
type RedisStorage struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{client: client, now: time.Now}
}

func redisKey(month string) string {
	return redisKeyPrefix + month
}

// Record implements Recorder
func (s *RedisStorage) Record(ctx context.Context, o Outcome) error {
	now := s.now()
	key := redisKey(monthKey(now))
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, key, string(o), 1)
		p.HSet(ctx, key, fieldUpdated, now.Unix())
		p.Expire(ctx, key, redisRetention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record %s: %w", o, err)
	}
	return nil
}

// Current implements Recorder
func (s *RedisStorage) Current(ctx context.Context) (MonthlyStats, error) {
	return s.Month(ctx, monthKey(s.now()))
}

// Month returns the counters of a YYYY-MM month
func (s *RedisStorage) Month(ctx context.Context, month string) (MonthlyStats, error) {
	data, err := s.client.HGetAll(ctx, redisKey(month)).Result()
	if err != nil {
		return MonthlyStats{}, fmt.Errorf("read %s: %w", month, err)
	}
	return parseHash(data), nil
}

func parseHash(data map[string]string) MonthlyStats {
	var m MonthlyStats
	for _, o := range []Outcome{OutcomeLive, OutcomeFallback, OutcomeSimulated, OutcomeInvalid} {
		if n, err := strconv.Atoi(data[string(o)]); err == nil {
			m.add(o, n)
		}
	}
	if raw, ok := data[fieldUpdated]; ok {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
			m.LastUpdated = time.Unix(unix, 0).UTC()
		}
	}
	return m
}

// Ping checks connectivity
func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
