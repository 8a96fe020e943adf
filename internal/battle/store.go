package battle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-arena/internal/cache"
)

// RoomStore persists rooms by code. Get returns (nil, nil) for unknown codes.
type RoomStore interface {
	// Create stores a new room and reports false when the code is taken.
	Create(ctx context.Context, room *Room) (bool, error)
	Get(ctx context.Context, code string) (*Room, error)
	Save(ctx context.Context, room *Room) error
	Delete(ctx context.Context, code string) error
}

// MemoryRoomStore keeps rooms in process. Rooms live until deleted.
type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string][]byte
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[string][]byte)}
}

func (m *MemoryRoomStore) Create(_ context.Context, room *Room) (bool, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.Code]; ok {
		return false, nil
	}
	m.rooms[room.Code] = data
	return true, nil
}

// Get returns a copy so callers can mutate it freely before Save.
func (m *MemoryRoomStore) Get(_ context.Context, code string) (*Room, error) {
	m.mu.RLock()
	data, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (m *MemoryRoomStore) Save(_ context.Context, room *Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.rooms[room.Code] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryRoomStore) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	return nil
}

// RedisRoomStore keeps rooms as JSON strings that expire ttl after their last write.
type RedisRoomStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisRoomStore(client redis.Cmdable, ttl time.Duration) *RedisRoomStore {
	return &RedisRoomStore{client: client, ttl: ttl}
}

func roomKey(code string) string {
	return cache.GenerateCacheKey("battle", "room", code)
}

func (s *RedisRoomStore) Create(ctx context.Context, room *Room) (bool, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, roomKey(room.Code), data, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create room: %w", err)
	}
	return ok, nil
}

func (s *RedisRoomStore) Get(ctx context.Context, code string) (*Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %w", code, err)
	}
	return &room, nil
}

func (s *RedisRoomStore) Save(ctx context.Context, room *Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, roomKey(room.Code), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

func (s *RedisRoomStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, roomKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
