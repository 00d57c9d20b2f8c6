package initializer

import (
	"go.uber.org/zap"

	"quizroom-service/config"
	"quizroom-service/infra/kafka"
)

func InitMessaging(appConfig config.Config) *kafka.Publisher {
	cfg := kafka.NewDefaultConfig(appConfig.Kafka.Brokers)
	if appConfig.Kafka.Topic != "" {
		cfg.Topic = appConfig.Kafka.Topic
	}
	cfg.ClientID = appConfig.App.Name

	publisher := kafka.NewPublisher(cfg)
	zap.L().Info("Kafka publisher initialized",
		zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return publisher
}
