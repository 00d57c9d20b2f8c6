package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

func HandleBasic[R Request, Res Response](handler BasicHandler[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R
		if body := bind(c, &req); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		res, status, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			zap.L().Error("Failed to handle request", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(status).JSON(res)
	}
}

func HandleWithFiber[R Request, Res Response](handler FiberHandler[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R
		if body := bind(c, &req); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		res, status, err := handler.Handle(c, c.UserContext(), &req)
		if err != nil {
			zap.L().Error("Failed to handle request", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		if res == nil {
			return nil
		}
		return c.Status(status).JSON(res)
	}
}

// bind parses and validates the request, returning the 400 body to send
// when either fails.
func bind[R any](c *fiber.Ctx, req *R) fiber.Map {
	if err := parseRequest(c, req); err != nil {
		return fiber.Map{"error": err.Error()}
	}
	if err := validate.Struct(req); err != nil {
		return fiber.Map{"error": "validation failed", "details": err.Error()}
	}
	return nil
}

func parseRequest[R any](c *fiber.Ctx, req *R) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return err
		}
	}

	if err := c.ParamsParser(req); err != nil {
		return err
	}

	if err := c.QueryParser(req); err != nil {
		return err
	}

	if err := c.ReqHeaderParser(req); err != nil {
		return err
	}

	return nil
}

// HandleWithFiberWS upgrades websocket requests and passes everything else
// on to the next handler of the route.
func HandleWithFiberWS[R Request](handler FiberWSHandler[R]) fiber.Handler {
	upgrade := websocket.New(func(c *websocket.Conn) {
		var req R
		handler.HandleWS(c, context.Background(), &req)
	})
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return upgrade(c)
	}
}
