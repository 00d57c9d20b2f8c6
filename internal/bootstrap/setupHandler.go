package bootstrap

import (
	"context"

	"quizroom-service/config"
	"quizroom-service/internal/api/game"
	httpHandler "quizroom-service/internal/api/http/handler"
	httpUsecase "quizroom-service/internal/api/http/usecase"
	"quizroom-service/internal/api/ws/hub"
	wsHandler "quizroom-service/internal/api/ws/handler"
	wsUsecase "quizroom-service/internal/api/ws/usecase"
)

func SetupHTTPHandlers(config config.Config, rooms *game.RoomManager) map[string]interface{} {
	roomStatsUseCase := httpUsecase.NewRoomStatsUseCase(rooms)
	roomStatsHandler := httpHandler.NewRoomStatsHandler(roomStatsUseCase)

	serviceInfoUseCase := httpUsecase.NewServiceInfoUseCase(config.App.Name, config.App.Version, config.Server.Path)
	serviceInfoHandler := httpHandler.NewServiceInfoHandler(serviceInfoUseCase)

	return map[string]interface{}{
		"room-stats":   roomStatsHandler,
		"service-info": serviceInfoHandler,
	}
}

func SetupWSHandlers(ctx context.Context, wsHub *hub.Hub) map[string]interface{} {
	roomConnectUseCase := wsUsecase.NewRoomConnectUseCase(wsHub)
	roomConnectHandler := wsHandler.NewWebSocketRoomHandler(ctx, roomConnectUseCase)

	return map[string]interface{}{
		"room-connect": roomConnectHandler,
	}
}
