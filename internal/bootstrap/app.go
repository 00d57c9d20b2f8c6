package bootstrap

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quizroom-service/config"
	"quizroom-service/internal/api/game"
	"quizroom-service/internal/api/ws/hub"
	"quizroom-service/internal/server"
	"quizroom-service/pkg/graceful"
)

type App struct {
	config       config.Config
	ctx          context.Context
	cancel       context.CancelFunc
	redisManager RoomRedisManager
	postgresRepo PostgresRepository
	saveStore    SaveStore
	publishers   []game.EventPublisher
	rooms        *game.RoomManager
	hub          *hub.Hub
	fiberApp     *fiber.App
	httpHandlers map[string]interface{}
	wsHandlers   map[string]interface{}
	closers      []io.Closer
}

func NewApp(config config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	app.initDependencies()
	return app
}

func (a *App) initDependencies() {
	a.saveStore = a.SetupSaveStore()
	a.publishers = a.SetupEventPublishers()
	a.rooms, a.hub = SetupWebsocket(a.ctx, a.config, a.saveStore, a.publishers)
	a.httpHandlers = SetupHTTPHandlers(a.config, a.rooms)
	a.wsHandlers = SetupWSHandlers(a.ctx, a.hub)
	a.fiberApp = SetupServer(a.config, a.httpHandlers, a.wsHandlers)
}

func (a *App) Start() {
	go func() {
		if err := server.Start(a.fiberApp, a.config.Server.Host, a.config.Server.Port); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			a.cancel()
		}
	}()

	zap.L().Info("Server started",
		zap.String("port", a.config.Server.Port),
		zap.String("path", a.config.Server.Path))

	defer a.close()

	graceful.WaitForShutdown(a.fiberApp, 5*time.Second, a.ctx)
}

// close ends every session, then releases storage and publishers.
func (a *App) close() {
	a.cancel()
	a.hub.Wait()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Error("Failed to close dependency", zap.Error(err))
		}
	}
}

func (a *App) addCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}
