package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	driverFlag      = "driver"
	storagePathFlag = "storage-path"
)

func main() {
	driver, storagePath := getFlagsValues()
	validateFlags(driver, storagePath)
	makeMigrations(driver, storagePath)
}

func getFlagsValues() (driver, storage string) {
	driverName := pflag.StringP(
		driverFlag, "d", "sqlite3", "sql driver: sqlite3 or pgx",
	)
	storagePath := pflag.StringP(
		storagePathFlag, "s", "", "sqlite file or postgres:// URL",
	)
	pflag.Parse()
	return *driverName, *storagePath
}

func validateFlags(driver, storagePath string) {
	var errs []error

	if driver == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", driverFlag))
	}

	if storagePath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", storagePathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(driver, storagePath string) {
	logger := storage.NewMigrationLogger(true)
	if err := storage.Migrate(driver, storagePath, logger); err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
}

func fallDown() {
	os.Exit(2)
}
