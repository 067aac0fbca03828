package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"apartment-scraper/models"
)

// RedisPublisher appends each listing record to a Redis stream as one
// entry whose fields are the CSV columns.
type RedisPublisher struct {
	client *redis.Client
	ctx    context.Context
	stream string
	maxLen int64
}

// NewRedisPublisher creates a publisher for the given stream. A positive
// maxLen caps the stream length approximately.
func NewRedisPublisher(ctx context.Context, addr string, db int, stream string, maxLen int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client: client,
		ctx:    ctx,
		stream: stream,
		maxLen: maxLen,
	}
}

// Ping checks that the server is reachable.
func (p *RedisPublisher) Ping() error {
	return p.client.Ping(p.ctx).Err()
}

// Write publishes records in order using one pipeline round trip.
func (p *RedisPublisher) Write(records []*models.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	_, err := p.client.Pipelined(p.ctx, func(pipe redis.Pipeliner) error {
		for _, r := range records {
			pipe.XAdd(p.ctx, p.entry(r))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: publish to %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisPublisher) entry(r *models.ListingRecord) *redis.XAddArgs {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: recordValues(r),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return args
}

func recordValues(r *models.ListingRecord) map[string]interface{} {
	row := r.Row()
	values := make(map[string]interface{}, len(row))
	for i, col := range models.CSVHeader {
		values[col] = row[i]
	}
	return values
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
