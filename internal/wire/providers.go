package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/reviewloop/reviewloop/internal/app"
	"github.com/reviewloop/reviewloop/internal/config"
	"github.com/reviewloop/reviewloop/internal/conversation"
	"github.com/reviewloop/reviewloop/internal/core"
	"github.com/reviewloop/reviewloop/internal/db"
	"github.com/reviewloop/reviewloop/internal/github"
	"github.com/reviewloop/reviewloop/internal/jobs"
	"github.com/reviewloop/reviewloop/internal/logger"
	"github.com/reviewloop/reviewloop/internal/review"
	"github.com/reviewloop/reviewloop/internal/server"
	"github.com/reviewloop/reviewloop/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	logger.NewLogger,
	config.LoadConfig,
	db.NewDatabase,
	storage.NewStore,
	github.NewClientFactory,
	review.NewOrchestrator,
	review.NewPublisher,
	jobs.NewPublishJob,
	provideConversationGateway,
	provideDispatcher,
	provideLoggerConfig,
	provideLogWriter,
	provideDBConfig,
	provideSQLDB,
)

func provideConversationGateway(cfg *config.Config, logger *slog.Logger) conversation.Gateway {
	return conversation.NewHTTPGateway(cfg.ConversationAPIURL, logger)
}

func provideDispatcher(publishJob core.Job, cfg *config.Config, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(publishJob, cfg.MaxWorkers, logger)
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.LoggerConfig
}

// provideLogWriter resolves the LOG_OUTPUT destination. Opening the file here
// rather than in the logger package keeps NewLogger free of filesystem
// side effects.
func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.LoggerConfig.Output {
	case "stderr":
		return os.Stderr
	case "file":
		file, err := os.OpenFile("reviewloop.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			slog.Error("failed to open log file, falling back to stdout", "error", err)
			return os.Stdout
		}
		return file
	default:
		return os.Stdout
	}
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return cfg.Database
}

func provideSQLDB(dbConn *db.DB) *sqlx.DB {
	return dbConn.DB
}
