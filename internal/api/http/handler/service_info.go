package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	httpUsecase "quizroom-service/internal/api/http/usecase"
)

type ServiceInfoRequest struct {
}

type ServiceInfoResponse struct {
}

// ServiceInfoHandler answers plain HTTP requests to the websocket path with
// a short text page.
type ServiceInfoHandler struct {
	usecase httpUsecase.ServiceInfoUseCase
}

func NewServiceInfoHandler(usecase httpUsecase.ServiceInfoUseCase) *ServiceInfoHandler {
	return &ServiceInfoHandler{
		usecase: usecase,
	}
}

func (h *ServiceInfoHandler) Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *ServiceInfoRequest) (*ServiceInfoResponse, int, error) {
	fbrCtx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	if err := fbrCtx.Status(fiber.StatusOK).SendString(h.usecase.Execute(ctx)); err != nil {
		return nil, fiber.StatusInternalServerError, err
	}
	return nil, fiber.StatusOK, nil
}
