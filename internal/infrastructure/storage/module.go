package storage

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/session"
)

var Module = fx.Module("storage",
	fx.Provide(NewLocator),
	fx.Provide(NewUploader),
)

// NewLocator selects the locator implementation from storage.mode
func NewLocator(ctx context.Context, cfg *config.Config, client httpclient.HTTPClient, accessor *session.Accessor, logger *zap.Logger) (Locator, error) {
	if cfg.Storage.IsS3() {
		return NewS3Locator(ctx, cfg, accessor, logger)
	}
	logger.Info("Using backend locator for presigned URLs")
	return NewBackendLocator(client, logger), nil
}
