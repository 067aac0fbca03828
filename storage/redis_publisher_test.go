package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValues(t *testing.T) {
	values := recordValues(sampleRecords()[0])

	assert.Equal(t, "Tartu mnt 1, Kesklinn", values["Address"])
	assert.Equal(t, "185000", values["General Price"])
	assert.Equal(t, "N/A", values["Year"])
	assert.Len(t, values, 9)
}

func TestEntryMaxLen(t *testing.T) {
	p := &RedisPublisher{stream: "listings", maxLen: 1000}
	args := p.entry(sampleRecords()[0])
	assert.Equal(t, "listings", args.Stream)
	assert.Equal(t, int64(1000), args.MaxLen)
	assert.True(t, args.Approx)

	p.maxLen = 0
	assert.Zero(t, p.entry(sampleRecords()[0]).MaxLen)
}

// This test requires a running Redis instance.
// If Redis is not available, the test will be skipped.
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()
	stream := "test_apartment_listings"

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}
	client.Del(ctx, stream)
	defer client.Del(ctx, stream)

	p := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 0)
	defer p.Close()
	require.NoError(t, p.Ping())
	require.NoError(t, p.Write(sampleRecords()))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Tartu mnt 1, Kesklinn", entries[0].Values["Address"])
	assert.Equal(t, "Sõpruse pst 5", entries[1].Values["Address"])
}
