package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/wirebundle/internal/config"
	"github.com/vk/wirebundle/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	model  *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and the
// loaded declaration model.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all declarations into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.Path)
	if err != nil {
		// A failure to load declarations is a fatal startup error.
		panic(fmt.Errorf("failed to load declarations: %w", err))
	}
	logger.Debug("Declarations loaded and translated into unified model.")

	return &App{
		outW:   outW,
		logger: logger,
		model:  model,
	}
}

// Model returns the loaded declaration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
