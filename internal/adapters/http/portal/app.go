package portal

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options は fiber アプリケーションの設定です。
type Options struct {
	BodyLimit int
	AccessLog io.Writer
}

// NewApp は入社ポータルの fiber.App を構築します。
func NewApp(h *Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "facility admission portal",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format:     "${status} - ${latency} ${method} ${path}\n",
			TimeFormat: time.RFC3339,
			Output:     opts.AccessLog,
		}))
	}

	h.Register(app)
	return app
}

// Serve は lis で待ち受け、ctx がキャンセルされると停止します。
func Serve(ctx context.Context, app *fiber.App, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listener(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
