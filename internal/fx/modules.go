package fx

import (
	"overwatch-tracker/internal/config"
	"overwatch-tracker/internal/database"
	"overwatch-tracker/internal/logger"
	"overwatch-tracker/internal/overwatch"
	"overwatch-tracker/internal/repository"
	"overwatch-tracker/internal/server"
	"overwatch-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideClient(cfg *config.Config, log zerolog.Logger) *overwatch.Client {
	return overwatch.NewClient(cfg.CareerBaseURL, overwatch.WithLogger(log))
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.Open),
	// career site client
	fx.Provide(ProvideClient),
	// repos
	fx.Provide(repository.NewProfileRepository),
	fx.Provide(repository.NewRankHistoryRepository),
	// svc
	fx.Provide(service.NewProfileService),
	// server
	fx.Provide(server.NewTrackerServer),
)
