package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/fx"

	"contract-workspace/internal/config"
	deliveryhttp "contract-workspace/internal/delivery/http"
	"contract-workspace/internal/document"
	"contract-workspace/internal/editor"
	"contract-workspace/internal/infrastructure/auth"
	"contract-workspace/internal/infrastructure/cache"
	"contract-workspace/internal/infrastructure/database"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/logger"
	"contract-workspace/internal/infrastructure/metrics"
	"contract-workspace/internal/infrastructure/redis"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
	"contract-workspace/internal/server"
	"contract-workspace/internal/usecase"
)

// Modules is the full dependency graph of the gateway
var Modules = fx.Options(
	// Configuration
	config.Module,

	// Infrastructure
	logger.Module,
	metrics.Module,
	database.Module,
	redis.Module,
	session.Module,
	auth.Module,
	httpclient.Module,
	repository.Module,
	storage.Module,
	cache.Module,

	// Document pipeline
	document.Module,
	editor.Module,

	// Business Logic
	usecase.Module,

	// Delivery
	deliveryhttp.Module,

	// Server
	server.Module,
)

// Application runs the gateway's fx graph under either a console or a
// service control manager.
type Application struct {
	app      *fx.App
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
}

func NewApplication() *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Run starts the graph and blocks until SIGINT/SIGTERM or Shutdown.
// fx rolls back a failed start before the error is returned.
func (a *Application) Run() error {
	defer close(a.done)

	a.app = fx.New(
		fx.Provide(func() context.Context { return a.ctx }),
		Modules,
	)
	if err := a.app.Err(); err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	startCtx, cancel := context.WithTimeout(a.ctx, fx.DefaultTimeout)
	defer cancel()
	if err := a.app.Start(startCtx); err != nil {
		a.cancel()
		return fmt.Errorf("start application: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-a.ctx.Done():
	}
	return a.stop()
}

// Shutdown asks a running application to stop; Run returns once it has
func (a *Application) Shutdown() {
	a.cancel()
}

// Wait blocks until Run has returned
func (a *Application) Wait() {
	<-a.done
}

func (a *Application) stop() error {
	var err error
	a.stopOnce.Do(func() {
		a.cancel()
		ctx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
		defer cancel()
		err = a.app.Stop(ctx)
	})
	return err
}
