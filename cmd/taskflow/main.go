package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"taskflow/internal/bootstrap"
	"taskflow/pkg/routes"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		routes.EchoModules,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	app.Run()
}
