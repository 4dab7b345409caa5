package client

import (
	"context"

	"go.uber.org/zap"
)

// App runs a Client under the apps manager.
type App struct {
	client *Client
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewApp(client *Client, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		client: client,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start blocks until Stop is called or the connection is lost for good.
func (app *App) Start() {
	if err := app.client.Run(app.ctx); err != nil {
		app.logger.Error("client error", zap.Error(err))
	}
}

func (app *App) Stop() {
	app.cancel()
}
