package db

import (
	stderrors "errors"
	"fmt"
	"strings"

	"zenith/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

var (
	ErrInvalidConnectionString = stderrors.New("invalid connection string")
	ErrInvalidMigratePath      = stderrors.New("migrations path is required")
)

// ValidateDSN checks that connStr is a parseable PostgreSQL URI or key/value DSN.
func ValidateDSN(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	return nil
}

// Migration applies every pending up migration found in path.
func Migration(dsn, path string) error {
	if err := ValidateDSN(dsn); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return ErrInvalidMigratePath
	}

	m, err := migrate.New("file://"+path, dsn)
	if err != nil {
		logger.Error("failed to initialise migrations", "path", path, "err", err)
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		logger.Error("failed to apply migrations", "err", err)
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		logger.Info("migrations applied", "version", version, "dirty", dirty)
	}
	return nil
}

// Rollback reverts the given number of migrations; steps <= 0 reverts all.
func Rollback(dsn, path string, steps int) error {
	if err := ValidateDSN(dsn); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return ErrInvalidMigratePath
	}

	m, err := migrate.New("file://"+path, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if steps <= 0 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}
