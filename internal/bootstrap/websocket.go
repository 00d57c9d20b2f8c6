package bootstrap

import (
	"context"

	"quizroom-service/config"
	"quizroom-service/internal/api/game"
	"quizroom-service/internal/api/ws/hub"
	"quizroom-service/internal/initializer"
)

func SetupWebsocket(ctx context.Context, config config.Config, saves SaveStore, publishers []game.EventPublisher) (*game.RoomManager, *hub.Hub) {
	events := initializer.InitEvents(ctx, config, publishers...)
	rooms := initializer.InitRoomManager(config, events)
	return rooms, initializer.InitWebsocket(rooms, saves, config)
}
