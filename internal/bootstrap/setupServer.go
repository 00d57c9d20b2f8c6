package bootstrap

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"quizroom-service/config"
	httpHandler "quizroom-service/internal/api/http/handler"
	wsHandler "quizroom-service/internal/api/ws/handler"
	"quizroom-service/internal/handler"
	"quizroom-service/internal/server"
)

func SetupServer(config config.Config, httpHandlers map[string]interface{}, wsHandlers map[string]interface{}) *fiber.App {
	serverConfig := server.Config{
		Host:         config.Server.Host,
		Port:         config.Server.Port,
		AllowOrigins: config.Server.AllowOrigins,
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	app := server.NewFiberApp(serverConfig)

	roomStatsHandler := httpHandlers["room-stats"].(*httpHandler.RoomStatsHandler)
	serviceInfoHandler := httpHandlers["service-info"].(*httpHandler.ServiceInfoHandler)
	roomConnectHandler := wsHandlers["room-connect"].(*wsHandler.WebSocketRoomHandler)

	app.Get("/rooms/stats", handler.HandleBasic[httpHandler.RoomStatsRequest, httpHandler.RoomStatsResponse](roomStatsHandler))

	// websocket upgrades and the plain info page share one path
	app.Get(config.Server.Path,
		handler.HandleWithFiberWS[wsHandler.WebSocketRoomRequest](roomConnectHandler),
		handler.HandleWithFiber[httpHandler.ServiceInfoRequest, httpHandler.ServiceInfoResponse](serviceInfoHandler))

	return app
}
