package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingocast/internal/infrastructure/config"
)

// NewDriver opens the configured database and wraps it in an ent SQL driver.
// The returned cleanup closes the pool.
func NewDriver(cfg *config.Config, logger logrus.FieldLogger) (*entsql.Driver, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	var rawDB *sql.DB
	var dialectName string
	switch driver {
	case "postgres":
		rawDB, err = sql.Open("postgres", dsn)
		dialectName = dialect.Postgres
	case "pgx":
		rawDB, err = openPgx(dsn, cfg.Database.LogSQL, logger)
		dialectName = dialect.Postgres
	case "sqlite3":
		rawDB, err = sql.Open("sqlite3", dsn)
		dialectName = dialect.SQLite
		if rawDB != nil {
			rawDB.SetMaxOpenConns(1)
			rawDB.SetMaxIdleConns(1)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if dialectName == dialect.SQLite {
		if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			rawDB.Close()
			return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	drv := entsql.OpenDB(dialectName, rawDB)
	return drv, func() {
		_ = drv.Close()
	}, nil
}

func openPgx(dsn string, logSQL bool, logger logrus.FieldLogger) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if logSQL {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}
	return stdlib.OpenDB(*connCfg), nil
}
