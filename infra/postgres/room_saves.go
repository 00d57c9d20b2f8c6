package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"quizroom-service/domain"
)

const (
	insertRoomSave = `
		INSERT INTO room_saves (id, data)
		VALUES ($1, $2)`

	selectRoomSave = `
		SELECT data FROM room_saves WHERE id = $1`
)

// Save stores a room snapshot under its save id. Ids are uuids; anything
// else is rejected before reaching the database.
func (r *Repository) Save(ctx context.Context, data domain.SaveData) error {
	id, err := uuid.Parse(data.SaveID)
	if err != nil {
		return fmt.Errorf("invalid save id %q: %w", data.SaveID, err)
	}
	payload, err := json.Marshal(data.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, insertRoomSave, id, payload); err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("save %s already exists: %w", id, err)
		}
		return fmt.Errorf("failed to insert room save: %w", err)
	}
	return nil
}

func (r *Repository) Load(ctx context.Context, saveID string) (domain.SaveData, error) {
	id, err := uuid.Parse(saveID)
	if err != nil {
		return domain.SaveData{}, domain.ErrSaveNotFound
	}

	var payload []byte
	err = r.db.QueryRowContext(ctx, selectRoomSave, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SaveData{}, domain.ErrSaveNotFound
	}
	if err != nil {
		return domain.SaveData{}, fmt.Errorf("failed to load room save: %w", err)
	}

	data := domain.SaveData{SaveID: saveID}
	if err := json.Unmarshal(payload, &data.Scores); err != nil {
		return domain.SaveData{}, fmt.Errorf("failed to unmarshal room save: %w", err)
	}
	return data, nil
}

func isDuplicateKeyError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// unique_violation
		return pqErr.Code == "23505"
	}
	return false
}
