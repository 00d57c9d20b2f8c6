package bootstrap

import (
	"go.uber.org/zap"

	"quizroom-service/internal/api/game"
	"quizroom-service/internal/initializer"
)

type RoomRedisManager interface {
	game.SaveStore
	game.EventPublisher
	Close() error
}

// InitRoomRedis connects once; the save store and the event publisher share
// the client.
func (a *App) InitRoomRedis() RoomRedisManager {
	if a.redisManager != nil {
		return a.redisManager
	}
	manager, err := initializer.InitRoomRedis(a.config)
	if err != nil {
		zap.L().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	a.redisManager = manager
	a.addCloser(manager)
	return manager
}
