package document

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/infrastructure/metrics"
)

var Module = fx.Module("document",
	fx.Provide(
		provideObserver,
		provideHandleStore,
		NewRenderer,
		NewRegistry,
		NewFetcher,
	),
	fx.Invoke(registerCleanup),
)

func provideObserver(m *metrics.Metrics) Observer {
	return m
}

func provideHandleStore(cfg *config.Config, observer Observer, logger *zap.Logger) (*HandleStore, error) {
	dir := cfg.Document.HandleDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "contract-workspace")
	}
	logger.Info("Display handle directory", zap.String("dir", dir))
	return NewHandleStore(afero.NewOsFs(), dir, observer)
}

func registerCleanup(lc fx.Lifecycle, registry *Registry, handles *HandleStore, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			registry.CloseAll()
			if err := handles.ReleaseAll(); err != nil {
				logger.Warn("Failed to release display handles", zap.Error(err))
			}
			logger.Info("Display handles released")
			return nil
		},
	})
}
