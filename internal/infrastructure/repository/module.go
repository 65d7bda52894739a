package repository

import (
	"go.uber.org/fx"

	"contract-workspace/internal/infrastructure/httpclient"
)

var Module = fx.Module("repository",
	fx.Provide(NewContractRepository),
	fx.Provide(NewEsignRepository),
	fx.Provide(NewAccountRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(provideAPILogSaver),
)

// provideAPILogSaver lets the HTTP client persist logs without importing
// this package
func provideAPILogSaver(repo APILogRepository) httpclient.APILogSaver {
	return repo
}
