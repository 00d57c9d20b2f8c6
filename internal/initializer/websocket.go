package initializer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quizroom-service/config"
	"quizroom-service/internal/api/game"
	"quizroom-service/internal/api/ws/hub"
)

const publishTimeout = 5 * time.Second

// InitEvents starts the room event dispatcher. It stops when ctx is done.
func InitEvents(ctx context.Context, appConfig config.Config, publishers ...game.EventPublisher) *game.EventDispatcher {
	dispatcher := game.NewEventDispatcher(appConfig.Events.Buffer, publishTimeout, zap.L().Named("events"), publishers...)
	go dispatcher.Run(ctx)
	return dispatcher
}

func InitRoomManager(appConfig config.Config, events game.Emitter) *game.RoomManager {
	return game.NewRoomManager(game.Options{
		CodeLength:   appConfig.Room.CodeLength,
		CodeRetries:  appConfig.Room.CodeRetries,
		QueueEnabled: appConfig.Room.QueueEnabled,
		Events:       events,
		Logger:       zap.L().Named("rooms"),
	})
}

func InitWebsocket(rooms *game.RoomManager, saves game.SaveStore, appConfig config.Config) *hub.Hub {
	ws := appConfig.WebSocket
	return hub.NewHub(rooms, saves, hub.Config{
		MailboxSize:    ws.MailboxSize,
		RateLimit:      ws.RateLimit,
		RateBurst:      ws.RateBurst,
		PingPeriod:     ws.PingPeriod,
		WriteWait:      ws.WriteWait,
		MaxMessageSize: ws.MaxMessageSize,
	}, zap.L().Named("hub"))
}
