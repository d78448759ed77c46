package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/setuponce/backend/internal/config"
)

// migrationLog routes golang-migrate's progress output through zap.
type migrationLog struct {
	logger *zap.Logger
}

func (l migrationLog) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrationLog) Verbose() bool { return false }

// RunMigrations brings the dashboard schema up to date when RUN_MIGRATIONS is on.
func RunMigrations(cfg *config.Config, logger *zap.Logger) error {
	if cfg == nil || !cfg.Migrations.Enabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "migrations"))

	sqlDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, sourceURL, err := newMigrator(sqlDB, cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	m.Log = migrationLog{logger: logger}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations from %s: %w", sourceURL, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("no migrations found", zap.String("source", sourceURL))
		return nil
	case err != nil:
		return err
	case dirty:
		logger.Warn("schema left dirty", zap.Uint("version", version))
	}

	logger.Info("schema up to date", zap.Uint("version", version))
	return nil
}

func newMigrator(sqlDB *sql.DB, cfg *config.Config) (*migrate.Migrate, string, error) {
	if err := sqlDB.Ping(); err != nil {
		return nil, "", fmt.Errorf("migrations ping: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, "", err
	}

	sourceURL := "file://" + filepath.ToSlash(cfg.Migrations.Path)
	m, err := migrate.NewWithDatabaseInstance(sourceURL, cfg.Database.Name, driver)
	if err != nil {
		return nil, "", err
	}
	return m, sourceURL, nil
}
