package battle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store RoomStore) {
	ctx := context.Background()
	room := &Room{Code: "ABC234", CreatorID: "u1", Status: StatusWaiting, MaxPlayers: 4,
		Players: []Player{{UserID: "u1", Name: "Ann"}}}

	got, err := store.Get(ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, got)

	created, err := store.Create(ctx, room)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Create(ctx, &Room{Code: "ABC234"})
	require.NoError(t, err)
	assert.False(t, created, "codes are unique")

	got, err = store.Get(ctx, "ABC234")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ann", got.Players[0].Name)

	got.Players[0].Ready = true
	require.NoError(t, store.Save(ctx, got))
	again, err := store.Get(ctx, "ABC234")
	require.NoError(t, err)
	assert.True(t, again.Players[0].Ready)

	require.NoError(t, store.Delete(ctx, "ABC234"))
	got, err = store.Get(ctx, "ABC234")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRoomStore(t *testing.T) {
	exerciseStore(t, NewMemoryRoomStore())
}

func TestRedisRoomStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedisRoomStore(client, time.Hour))
}

func TestRedisRoomStoreExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisRoomStore(client, time.Minute)
	ctx := context.Background()

	_, err := store.Create(ctx, &Room{Code: "TTL234", Status: StatusWaiting})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(roomKey("TTL234")))

	mr.FastForward(2 * time.Minute)
	got, err := store.Get(ctx, "TTL234")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryRoomStoreReturnsCopies(t *testing.T) {
	store := NewMemoryRoomStore()
	ctx := context.Background()
	_, err := store.Create(ctx, &Room{Code: "CPY234", Players: []Player{{UserID: "u1"}}})
	require.NoError(t, err)

	got, _ := store.Get(ctx, "CPY234")
	got.Players[0].Ready = true

	fresh, _ := store.Get(ctx, "CPY234")
	assert.False(t, fresh.Players[0].Ready)
}
