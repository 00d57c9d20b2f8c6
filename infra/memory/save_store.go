package memory

import (
	"context"
	"sync"

	"quizroom-service/domain"
)

// SaveStore keeps room save-data in process. Saves do not survive a restart.
type SaveStore struct {
	mu    sync.RWMutex
	saves map[string]domain.SaveData
}

func NewSaveStore() *SaveStore {
	return &SaveStore{saves: make(map[string]domain.SaveData)}
}

func (s *SaveStore) Save(_ context.Context, data domain.SaveData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves[data.SaveID] = data.Clone()
	return nil
}

func (s *SaveStore) Load(_ context.Context, saveID string) (domain.SaveData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.saves[saveID]
	if !ok {
		return domain.SaveData{}, domain.ErrSaveNotFound
	}
	return data.Clone(), nil
}

func (s *SaveStore) Close() error {
	return nil
}
