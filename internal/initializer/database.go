package initializer

import (
	"fmt"

	"quizroom-service/config"
	"quizroom-service/infra/postgres"
)

func InitDatabase(appConfig config.Config) (*postgres.Repository, error) {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		appConfig.Postgres.User,
		appConfig.Postgres.Password,
		appConfig.Postgres.Host,
		appConfig.Postgres.Port,
		appConfig.Postgres.DB,
	)
	return postgres.NewRepository(connString)
}
