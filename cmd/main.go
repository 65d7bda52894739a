package main

import (
	"context"

	"go.uber.org/fx"

	"contract-workspace/internal/service"
)

func main() {
	fx.New(
		fx.Provide(context.Background),
		service.Modules,
	).Run()
}
