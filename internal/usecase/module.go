package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(NewAuthUsecase),
	fx.Provide(NewOrganizationUsecase),
	fx.Provide(NewContractUsecase),
	fx.Provide(NewDocumentUsecase),
	fx.Provide(NewEsignUsecase),
	fx.Provide(NewLogUsecase),
	fx.Provide(provideEnvelopeObserver),
)
