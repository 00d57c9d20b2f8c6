package game

import (
	"context"

	"quizroom-service/domain"
)

// SaveStore persists room save-data between room lifetimes.
type SaveStore interface {
	Save(ctx context.Context, data domain.SaveData) error
	Load(ctx context.Context, saveID string) (domain.SaveData, error)
}
