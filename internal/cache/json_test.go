package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-arena/internal/adapter"
	"quiz-arena/internal/config"
)

type entry struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestJSONRoundTripOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	c := adapter.NewRedisCacheAdapter(client)
	ctx := context.Background()

	var got entry
	hit, err := GetJSON(ctx, c, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	SetJSON(ctx, c, "k", entry{Title: "Algebra", Count: 3}, time.Minute)
	hit, err = GetJSON(ctx, c, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, entry{Title: "Algebra", Count: 3}, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	Invalidate(ctx, c, "k")
	assert.False(t, mr.Exists("k"))
}

func TestGetJSONEvictsGarbage(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("k", "{not json"))
	c := adapter.NewRedisCacheAdapter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	var got entry
	hit, err := GetJSON(context.Background(), c, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("k"))
}

func TestGetJSONPropagatesRedisErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	c := adapter.NewRedisCacheAdapter(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.SetError("LOADING")

	var got entry
	_, err := GetJSON(context.Background(), c, "k", &got)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}

func TestNilCacheIsAlwaysMiss(t *testing.T) {
	var got entry
	hit, err := GetJSON(context.Background(), nil, "k", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
	SetJSON(context.Background(), nil, "k", got, 0)
	Invalidate(context.Background(), nil, "k")
}

func TestNewRedisClientRequiresAddress(t *testing.T) {
	_, err := NewRedisClient(config.RedisConfig{})
	assert.Error(t, err)
}
