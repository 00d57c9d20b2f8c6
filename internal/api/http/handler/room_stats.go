package handler

import (
	"context"

	httpUsecase "quizroom-service/internal/api/http/usecase"
)

type RoomStatsRequest struct {
}

type RoomStatsResponse struct {
	Message string `json:"message"`
	httpUsecase.RoomStats
}

type RoomStatsHandler struct {
	usecase httpUsecase.RoomStatsUseCase
}

func NewRoomStatsHandler(usecase httpUsecase.RoomStatsUseCase) *RoomStatsHandler {
	return &RoomStatsHandler{
		usecase: usecase,
	}
}

func (h *RoomStatsHandler) Handle(ctx context.Context, req *RoomStatsRequest) (*RoomStatsResponse, int, error) {
	status, stats, err := h.usecase.Execute(ctx)
	if err != nil {
		return nil, status, err
	}
	return &RoomStatsResponse{Message: "room stats", RoomStats: stats}, status, nil
}
