package httpclient

import (
	"go.uber.org/fx"

	"contract-workspace/internal/infrastructure/metrics"
	"contract-workspace/internal/infrastructure/session"
)

// provideCredentials wraps the session accessor as Credentials interface
func provideCredentials(accessor *session.Accessor) Credentials {
	return accessor
}

// provideObserver wraps the metrics collector as RequestObserver interface
func provideObserver(m *metrics.Metrics) RequestObserver {
	return m
}

var Module = fx.Module("httpclient",
	fx.Provide(NewHTTPClient),
	fx.Provide(provideCredentials),
	fx.Provide(provideObserver),
)
