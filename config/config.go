package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Room      RoomConfig      `mapstructure:"room"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Events    EventsConfig    `mapstructure:"events"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	Path         string `mapstructure:"path"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type WebSocketConfig struct {
	MailboxSize    int           `mapstructure:"mailbox_size"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateBurst      int           `mapstructure:"rate_burst"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
}

type RoomConfig struct {
	CodeLength   int  `mapstructure:"code_length"`
	CodeRetries  int  `mapstructure:"code_retries"`
	QueueEnabled bool `mapstructure:"queue_enabled"`
}

type StorageConfig struct {
	// Driver is one of memory, redis, postgres.
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	SaveTTL  time.Duration `mapstructure:"save_ttl"`
}

type PostgresConfig struct {
	Port     string `mapstructure:"port"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type EventsConfig struct {
	Buffer   int  `mapstructure:"buffer"`
	Redis    bool `mapstructure:"redis"`
	Postgres bool `mapstructure:"postgres"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func Read() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/")

	setDefaults()

	// ENV overrides with prefix QUIZ_ and dot-to-underscore replacement
	viper.SetEnvPrefix("QUIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zap.L().Warn("Failed to read configuration file", zap.Error(err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		zap.L().Error("Configuration could not be parsed", zap.Error(err))
	}

	return config
}

func setDefaults() {
	viper.SetDefault("app.name", "quizroom-service")
	viper.SetDefault("app.version", "0.1.0")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.path", "/sporcle")
	viper.SetDefault("server.allow_origins", "*")

	viper.SetDefault("websocket.mailbox_size", 0)
	viper.SetDefault("websocket.rate_limit", 20)
	viper.SetDefault("websocket.rate_burst", 40)
	viper.SetDefault("websocket.ping_period", 54*time.Second)
	viper.SetDefault("websocket.write_wait", 10*time.Second)
	viper.SetDefault("websocket.max_message_size", 65536)

	viper.SetDefault("room.code_length", 8)
	viper.SetDefault("room.code_retries", 100)
	viper.SetDefault("room.queue_enabled", true)

	viper.SetDefault("storage.driver", "memory")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.save_ttl", 720*time.Hour)

	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.user", "myuser")
	viper.SetDefault("postgres.password", "mypassword")
	viper.SetDefault("postgres.db", "quizdb")

	viper.SetDefault("events.buffer", 256)
	viper.SetDefault("events.redis", false)
	viper.SetDefault("events.postgres", false)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topic", "room-events")
}
