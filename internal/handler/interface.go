package handler

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Request and Response are the bound request and JSON response types of a
// route. Fields are filled from params, query, headers and body.
type Request any
type Response any

// BasicHandler serves a route that needs only the request. It returns the
// response, the HTTP status and an error whose text becomes the body.
type BasicHandler[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, int, error)
}

// FiberHandler also gets the fiber context. A nil response means the
// handler has written the body itself.
type FiberHandler[R Request, Res Response] interface {
	Handle(fbrCtx *fiber.Ctx, ctx context.Context, req *R) (*Res, int, error)
}

// FiberWSHandler runs one upgraded websocket connection until it ends.
type FiberWSHandler[R Request] interface {
	HandleWS(c *websocket.Conn, ctx context.Context, req *R)
}
