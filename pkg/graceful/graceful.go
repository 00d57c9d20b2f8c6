package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WaitForShutdown blocks until SIGINT, SIGTERM or ctx is done, then shuts
// the app down, giving in-flight requests up to timeout to finish.
func WaitForShutdown(app *fiber.App, timeout time.Duration, ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	zap.L().Info("Shutting down...")

	if err := app.ShutdownWithTimeout(timeout); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
		return
	}
	zap.L().Info("Server stopped")
}
