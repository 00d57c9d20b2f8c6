package kafka

import "time"

type Config struct {
	Brokers      []string
	Topic        string
	ClientID     string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
	MaxAttempts  int
}

func NewDefaultConfig(brokers []string) Config {
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		Brokers:      brokers,
		Topic:        "room-events",
		ClientID:     "quizroom-service",
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		MaxAttempts:  3,
	}
}
