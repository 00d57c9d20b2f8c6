package postgres

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const (
	createRoomSavesTable = `
		CREATE TABLE IF NOT EXISTS room_saves (
			id UUID PRIMARY KEY,
			data JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`

	createRoomEventsTable = `
		CREATE TABLE IF NOT EXISTS room_events (
			id BIGSERIAL PRIMARY KEY,
			event_type VARCHAR(32) NOT NULL,
			room_code VARCHAR(32) NOT NULL,
			username VARCHAR(100),
			users INT NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			occurred_at TIMESTAMP WITH TIME ZONE NOT NULL
		);`

	createIndexes = `
		CREATE INDEX IF NOT EXISTS idx_room_events_room_code ON room_events(room_code);
		CREATE INDEX IF NOT EXISTS idx_room_events_type ON room_events(event_type);
		CREATE INDEX IF NOT EXISTS idx_room_saves_created_at ON room_saves(created_at);`
)

// initDB creates every table the service uses.
func initDB(db *sql.DB) error {
	tables := []struct {
		name  string
		query string
	}{
		{"room_saves", createRoomSavesTable},
		{"room_events", createRoomEventsTable},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create '%s' table: %w", table.name, err)
		}
		zap.L().Debug("table ready", zap.String("table", table.name))
	}

	if _, err := db.Exec(createIndexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	zap.L().Info("database initialized")
	return nil
}
