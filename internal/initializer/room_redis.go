package initializer

import (
	"context"
	"fmt"
	"time"

	"quizroom-service/config"
	"quizroom-service/infra/redis"
)

func InitRoomRedis(appConfig config.Config) (*redis.RedisManager, error) {
	address := fmt.Sprintf("%s:%s", appConfig.Redis.Host, appConfig.Redis.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return redis.NewRedisManager(ctx, address, appConfig.Redis.Password, appConfig.Redis.DB, appConfig.Redis.SaveTTL)
}
