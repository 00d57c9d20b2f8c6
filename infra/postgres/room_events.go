package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"quizroom-service/domain"
)

const insertRoomEvent = `
	INSERT INTO room_events (event_type, room_code, username, users, payload, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Publish appends evt to the room event journal.
func (r *Repository) Publish(ctx context.Context, evt domain.RoomEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal room event: %w", err)
	}

	username := sql.NullString{String: evt.Username, Valid: evt.Username != ""}
	_, err = r.db.ExecContext(ctx, insertRoomEvent,
		evt.Type, evt.RoomCode, username, evt.Users, payload, evt.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to journal %s event for room %s: %w", evt.Type, evt.RoomCode, err)
	}
	return nil
}
