package bootstrap

import (
	"quizroom-service/internal/api/game"
	"quizroom-service/internal/initializer"
)

// SetupEventPublishers returns the configured room event sinks.
func (a *App) SetupEventPublishers() []game.EventPublisher {
	var publishers []game.EventPublisher

	if a.config.Kafka.Enabled {
		publisher := initializer.InitMessaging(a.config)
		a.addCloser(publisher)
		publishers = append(publishers, publisher)
	}
	if a.config.Events.Redis {
		publishers = append(publishers, a.InitRoomRedis())
	}
	if a.config.Events.Postgres {
		publishers = append(publishers, a.InitDatabase())
	}
	return publishers
}
