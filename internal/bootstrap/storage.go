package bootstrap

import (
	"go.uber.org/zap"

	"quizroom-service/infra/memory"
	"quizroom-service/internal/api/game"
)

type SaveStore interface {
	game.SaveStore
}

func (a *App) SetupSaveStore() SaveStore {
	driver := a.config.Storage.Driver
	zap.L().Info("Save store selected", zap.String("driver", driver))

	switch driver {
	case "redis":
		return a.InitRoomRedis()
	case "postgres":
		return a.InitDatabase()
	case "memory", "":
		return memory.NewSaveStore()
	default:
		zap.L().Warn("Unknown storage driver, using memory", zap.String("driver", driver))
		return memory.NewSaveStore()
	}
}
