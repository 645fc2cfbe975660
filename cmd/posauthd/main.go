package main

import (
	"context"
	"log/slog"
	"os"

	"posauth/config"
	"posauth/internal/delivery"
	"posauth/internal/delivery/http"
	"posauth/internal/delivery/http/middleware"
	"posauth/internal/delivery/http/router/handler"
	"posauth/internal/domain/repository"
	"posauth/internal/errors"
	"posauth/internal/infra/audit"
	logs "posauth/internal/infra/log"
	"posauth/internal/infra/persistence/memory"
	"posauth/internal/infra/persistence/postgres"
	"posauth/internal/infra/policy"
	"posauth/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		audit.NewSlogSink,
		policy.NewConfigProvider,
	)
}

type registryParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type registryResult struct {
	fx.Out

	Credentials repository.CredentialRepository
	TxManager   repository.TransactionManager
}

// newCredentialRegistry selects the registry backend: postgres for shared
// multi-terminal deployments, memory for embedded single hosts.
func newCredentialRegistry(params registryParams) (registryResult, error) {
	switch params.Config.Registry.Backend {
	case config.RegistryBackendMemory:
		repo := memory.NewCredentialRepository()

		return registryResult{
			Credentials: repo,
			TxManager:   memory.NewTransactionManager(repo),
		}, nil

	case config.RegistryBackendPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return registryResult{}, err
		}

		return registryResult{
			Credentials: postgres.NewCredentialRepository(db),
			TxManager:   postgres.NewTransactionManager(db),
		}, nil

	default:
		return registryResult{}, errors.Errorf("unknown registry backend: %s", params.Config.Registry.Backend)
	}
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newCredentialRegistry,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewDirectoryService,
			impl.NewLockService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewCredentialHandler,
			handler.NewTerminalHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
