package storage

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration of the driver's schema.
//
// It opens its own connection, the caller's pool stays untouched.
func Migrate(driver, dsn string, logger migrate.Logger) error {
	const op = "storage.Migrate"

	dbURL, err := migrationURL(driver, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer m.Close()

	m.Log = logger

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			if logger != nil {
				logger.Printf("no migrations to apply")
			}
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if logger != nil {
		logger.Printf("migrations applied")
	}
	return nil
}

func migrationURL(driver, dsn string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3://" + dsn, nil
	case DriverPgx:
		for _, scheme := range []string{"postgres://", "postgresql://"} {
			if rest, ok := strings.CutPrefix(dsn, scheme); ok {
				return "pgx5://" + rest, nil
			}
		}
		return "", errors.New("pgx dsn must be a postgres:// URL")
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// A MigrationLogger prints golang-migrate progress through slog.
type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger(verbose bool) *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.With("op", "storage.Migrate"),
		verbose: verbose,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}
