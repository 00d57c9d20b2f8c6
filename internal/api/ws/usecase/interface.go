package wsUsecase

import (
	"context"

	"quizroom-service/internal/api/ws/hub"
)

type Hub interface {
	Serve(ctx context.Context, conn hub.Conn)
}
