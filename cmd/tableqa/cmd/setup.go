package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/tableqa/internal/config"
	"github.com/dbsmedya/tableqa/internal/database"
	"github.com/dbsmedya/tableqa/internal/extcmd"
	"github.com/dbsmedya/tableqa/internal/logger"
	"github.com/dbsmedya/tableqa/internal/qa"
	"github.com/dbsmedya/tableqa/internal/trackdb"
)

// signalContext returns the command context, cancelled on SIGINT or SIGTERM.
var signalContext = database.SetupSignalHandler

// loadConfig loads the config file, applies CLI overrides and validates.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.OutputDir, overrides.Workers)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// connect opens and pings the database.
func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.Manager, error) {
	dbManager := database.NewManager(&cfg.Database)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbManager.Ping(ctx); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	log.Infow("Connected to database", "host", cfg.Database.Host, "port", cfg.Database.Port)
	return dbManager, nil
}

// newResolverFactory picks the attribute source configured in metadata.source.
func newResolverFactory(meta config.MetadataConfig, db *sql.DB, runner extcmd.Runner) qa.ResolverFactory {
	if meta.Source == config.MetadataSourceTrackDB {
		return func(database string) trackdb.AttributeResolver {
			return trackdb.NewTrackDB(db, database, meta.TrackDBTable)
		}
	}
	return func(database string) trackdb.AttributeResolver {
		return trackdb.NewTdbQuery(runner, meta.TdbQueryProgram, database)
	}
}
