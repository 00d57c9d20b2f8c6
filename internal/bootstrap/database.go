package bootstrap

import (
	"go.uber.org/zap"

	"quizroom-service/internal/api/game"
	"quizroom-service/internal/initializer"
)

type PostgresRepository interface {
	game.SaveStore
	game.EventPublisher
	Close() error
}

// InitDatabase connects once; the save store and the event journal share
// the repository.
func (a *App) InitDatabase() PostgresRepository {
	if a.postgresRepo != nil {
		return a.postgresRepo
	}
	repo, err := initializer.InitDatabase(a.config)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	a.postgresRepo = repo
	a.addCloser(repo)
	return repo
}
