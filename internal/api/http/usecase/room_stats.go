package httpUsecase

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type RoomStats struct {
	Rooms int `json:"rooms"`
	Users int `json:"users"`
}

type RoomStatsUseCase interface {
	Execute(ctx context.Context) (int, RoomStats, error)
}

type roomStatsUseCase struct {
	registry RoomRegistry
}

func NewRoomStatsUseCase(registry RoomRegistry) RoomStatsUseCase {
	return &roomStatsUseCase{
		registry: registry,
	}
}

func (u *roomStatsUseCase) Execute(ctx context.Context) (int, RoomStats, error) {
	rooms, users := u.registry.Stats()
	return fiber.StatusOK, RoomStats{Rooms: rooms, Users: users}, nil
}
