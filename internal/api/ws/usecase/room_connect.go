package wsUsecase

import (
	"context"

	"quizroom-service/internal/api/ws/hub"
)

type RoomConnectUseCase interface {
	Execute(ctx context.Context, conn hub.Conn)
}

type roomConnectUseCase struct {
	hub Hub
}

func NewRoomConnectUseCase(hub Hub) RoomConnectUseCase {
	return &roomConnectUseCase{
		hub: hub,
	}
}

// Execute runs the connection's session and returns once it has ended.
func (u *roomConnectUseCase) Execute(ctx context.Context, conn hub.Conn) {
	u.hub.Serve(ctx, conn)
}
