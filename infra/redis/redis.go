package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizroom-service/domain"
)

const (
	saveKeyPrefix = "save:"
	roomChannel   = "room:"
)

// RedisManager stores room save-data and publishes room events on per-room
// channels.
type RedisManager struct {
	client  *redis.Client
	saveTTL time.Duration
}

// roomMessage is the envelope published on room:<code>.
type roomMessage struct {
	Type      string           `json:"type"`
	RoomCode  string           `json:"roomCode"`
	Data      domain.RoomEvent `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewRedisManager connects and pings the server.
func NewRedisManager(ctx context.Context, addr, password string, db int, saveTTL time.Duration) (*RedisManager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisManager{
		client:  rdb,
		saveTTL: saveTTL,
	}, nil
}

func (rm *RedisManager) Close() error {
	return rm.client.Close()
}

func (rm *RedisManager) Save(ctx context.Context, data domain.SaveData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}
	if err := rm.client.Set(ctx, saveKeyPrefix+data.SaveID, payload, rm.saveTTL).Err(); err != nil {
		return fmt.Errorf("failed to store save %s: %w", data.SaveID, err)
	}
	return nil
}

func (rm *RedisManager) Load(ctx context.Context, saveID string) (domain.SaveData, error) {
	payload, err := rm.client.Get(ctx, saveKeyPrefix+saveID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SaveData{}, domain.ErrSaveNotFound
	}
	if err != nil {
		return domain.SaveData{}, fmt.Errorf("failed to load save %s: %w", saveID, err)
	}

	var data domain.SaveData
	if err := json.Unmarshal(payload, &data); err != nil {
		return domain.SaveData{}, fmt.Errorf("failed to unmarshal save %s: %w", saveID, err)
	}
	data.SaveID = saveID
	return data, nil
}

// Publish sends evt to the room's channel.
func (rm *RedisManager) Publish(ctx context.Context, evt domain.RoomEvent) error {
	payload, err := json.Marshal(roomMessage{
		Type:      evt.Type,
		RoomCode:  evt.RoomCode,
		Data:      evt,
		Timestamp: evt.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	channel := roomChannel + evt.RoomCode
	if err := rm.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis channel %s: %w", channel, err)
	}
	return nil
}
