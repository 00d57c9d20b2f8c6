package wsHandler

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	wsUsecase "quizroom-service/internal/api/ws/usecase"
)

// WebSocketRoomHandler hands upgraded connections to the room hub.
type WebSocketRoomHandler struct {
	usecase wsUsecase.RoomConnectUseCase
	ctx     context.Context
}

type WebSocketRoomRequest struct {
}

// NewWebSocketRoomHandler builds the handler. Sessions end when ctx is done.
func NewWebSocketRoomHandler(ctx context.Context, usecase wsUsecase.RoomConnectUseCase) *WebSocketRoomHandler {
	return &WebSocketRoomHandler{
		usecase: usecase,
		ctx:     ctx,
	}
}

func (h *WebSocketRoomHandler) HandleWS(c *websocket.Conn, _ context.Context, req *WebSocketRoomRequest) {
	zap.L().Debug("websocket connected",
		zap.String("remote_addr", c.RemoteAddr().String()),
		zap.String("request_id", requestID(c)))
	h.usecase.Execute(h.ctx, c)
}

func requestID(c *websocket.Conn) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
