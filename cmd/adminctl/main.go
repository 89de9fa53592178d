// Command adminctl manages accounts out of band: it creates
// administrators and lists the users table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/passwd"
	"github.com/niksmo/storefront/internal/adapter/picture"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/app"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/spf13/pflag"
)

type flags struct {
	createAdmin string
	password    string
	listUsers   bool
}

func main() {
	sigCtx, cancel := sigctx.NotifyContext()
	defer cancel()

	f := getFlagsValues()

	cfg := config.Load()
	app.InitLogger(cfg.LogLevel)

	db := openStorage(sigCtx, cfg)
	defer db.Close()

	accounts := newAdminAccounts(db, cfg)

	if f.createAdmin != "" {
		createAdmin(sigCtx, accounts, f.createAdmin, f.password)
	}
	if f.listUsers {
		listUsers(sigCtx, accounts)
	}
}

func getFlagsValues() flags {
	var f flags
	pflag.String("config", "", "config file")
	pflag.StringVar(&f.createAdmin, "create-admin", "", "username of the new administrator")
	pflag.StringVar(&f.password, "password", "", "password of the new administrator")
	pflag.BoolVar(&f.listUsers, "list-users", false, "print every user")
	pflag.Parse()

	if f.createAdmin == "" && !f.listUsers {
		pflag.Usage()
		fallDown()
	}
	if f.createAdmin != "" && f.password == "" {
		slog.Error("--password flag: required with --create-admin")
		fallDown()
	}
	return f
}

func openStorage(ctx context.Context, cfg config.Config) storage.SQLDB {
	if cfg.SQLAutoMigrate {
		err := storage.Migrate(cfg.SQLDriver, cfg.SQLDB, storage.NewMigrationLogger(false))
		if err != nil {
			slog.Error("failed to migrate", "err", err)
			fallDown()
		}
	}

	db, err := storage.NewSQLDB(ctx, cfg.SQLDriver, cfg.SQLDB)
	if err != nil {
		slog.Error("failed to open storage", "err", err)
		fallDown()
	}
	return db
}

func newAdminAccounts(db storage.SQLDB, cfg config.Config) port.AdminAccounts {
	return service.New(
		storage.NewProductsRepository(db),
		storage.NewUsersRepository(db),
		picture.New(cfg.Image.Width, cfg.Image.Height, cfg.Image.Quality),
		passwd.NewBcryptHasher(cfg.BcryptCost),
		nil,
	)
}

func createAdmin(
	ctx context.Context, accounts port.AdminAccounts, username, password string,
) {
	id, err := accounts.CreateAdmin(ctx, username, password)
	if err != nil {
		slog.Error("failed to create admin", "err", err)
		fallDown()
	}
	fmt.Printf("admin %q created with id %d\n", username, id)
}

func listUsers(ctx context.Context, accounts port.AdminAccounts) {
	users, err := accounts.ListUsers(ctx)
	if err != nil {
		slog.Error("failed to list users", "err", err)
		fallDown()
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tADMIN")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%t\n", u.ID, u.Username, u.IsAdmin)
	}
	_ = tw.Flush()
}

func fallDown() {
	os.Exit(2)
}
