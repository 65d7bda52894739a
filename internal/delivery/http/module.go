package http

import (
	"go.uber.org/fx"

	"contract-workspace/internal/delivery/http/handler"
	"contract-workspace/internal/delivery/http/router"
)

type handlersIn struct {
	fx.In

	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Contract     *handler.ContractHandler
	Document     *handler.DocumentHandler
	Esign        *handler.EsignHandler
	Log          *handler.LogHandler
}

func provideHandlers(in handlersIn) router.Handlers {
	return router.Handlers{
		Health:       in.Health,
		Auth:         in.Auth,
		Organization: in.Organization,
		Contract:     in.Contract,
		Document:     in.Document,
		Esign:        in.Esign,
		Log:          in.Log,
	}
}

var Module = fx.Module("http",
	fx.Provide(
		handler.NewHealthHandler,
		handler.NewAuthHandler,
		handler.NewOrganizationHandler,
		handler.NewContractHandler,
		handler.NewDocumentHandler,
		handler.NewEsignHandler,
		handler.NewLogHandler,
		provideHandlers,
		router.NewRouter,
	),
)
