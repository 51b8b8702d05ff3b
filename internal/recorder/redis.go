package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quotesentinel/internal/model"
)

const redisOpTimeout = 2 * time.Second

// RedisRecorder mirrors the latest record and a capped recent window into
// Redis for external displays.
type RedisRecorder struct {
	client    *redis.Client
	keyPrefix string
	runID     string
	maxRecent int64
}

// NewRedisRecorder connects and pings the server.
func NewRedisRecorder(addr, password string, db int, keyPrefix, runID string, maxRecent int) (*RedisRecorder, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if maxRecent <= 0 {
		maxRecent = 1000
	}
	return &RedisRecorder{client: client, keyPrefix: keyPrefix, runID: runID, maxRecent: int64(maxRecent)}, nil
}

// LatestKey holds the JSON of the most recent record.
func (r *RedisRecorder) LatestKey() string { return r.keyPrefix + ":latest" }

// RecordsKey holds the capped list of recent records of this run.
func (r *RedisRecorder) RecordsKey() string {
	return fmt.Sprintf("%s:run:%s:records", r.keyPrefix, r.runID)
}

// FinalKey holds the JSON of this run's final report.
func (r *RedisRecorder) FinalKey() string {
	return fmt.Sprintf("%s:run:%s:final", r.keyPrefix, r.runID)
}

func (r *RedisRecorder) RecordTick(rec *model.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.LatestKey(), payload, 0)
	pipe.RPush(ctx, r.RecordsKey(), payload)
	pipe.LTrim(ctx, r.RecordsKey(), -r.maxRecent, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis record tick: %w", err)
	}
	return nil
}

func (r *RedisRecorder) RecordFinal(rep *model.FinalReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal final report: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Set(ctx, r.FinalKey(), payload, 0).Err()
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
