package main

import (
	"go.uber.org/zap"

	"quizroom-service/config"
	"quizroom-service/internal/bootstrap"
	_ "quizroom-service/log"
)

func main() {
	appConfig := config.Read()
	defer zap.L().Sync()
	zap.L().Info("app starting...",
		zap.String("app name", appConfig.App.Name),
		zap.String("version", appConfig.App.Version))

	app := bootstrap.NewApp(appConfig)

	app.Start()
}
