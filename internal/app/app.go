package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/passwd"
	"github.com/niksmo/storefront/internal/adapter/picture"
	"github.com/niksmo/storefront/internal/adapter/sessionstore"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type repositories struct {
	products storage.ProductsRepository
	users    storage.UsersRepository
}

type App struct {
	ctx          context.Context
	cfg          config.Config
	db           storage.SQLDB
	repositories repositories
	events       *kafka.CatalogEventsProducer
	service      service.Service
	sessions     *sessionstore.Store
	httpServer   httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	InitLogger(cfg.LogLevel)
	app.initStorage()
	app.initCatalogEvents()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

// InitLogger installs the JSON logger on stderr as the default one.
func InitLogger(level slog.Leveler) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	driver, dsn := app.cfg.SQLDriver, app.cfg.SQLDB

	if app.cfg.SQLAutoMigrate {
		err := storage.Migrate(driver, dsn, storage.NewMigrationLogger(false))
		if err != nil {
			app.fallDown(op, err)
		}
	}

	db, err := storage.NewSQLDB(app.ctx, driver, dsn)
	if err != nil {
		app.fallDown(op, err)
	}

	app.db = db
	app.repositories.products = storage.NewProductsRepository(db)
	app.repositories.users = storage.NewUsersRepository(db)
}

func (app *App) initCatalogEvents() {
	const op = "App.initCatalogEvents"

	brokerCfg := app.cfg.Broker
	if !brokerCfg.Enabled() {
		slog.Info("catalog events are disabled", "op", op)
		return
	}

	var tlsConfig *tls.Config
	if brokerCfg.TLS.Enabled() {
		var err error
		tlsConfig, err = adapter.MakeTLSConfig(
			brokerCfg.TLS.CA, brokerCfg.TLS.Cert, brokerCfg.TLS.Key,
		)
		if err != nil {
			app.fallDown(op, err)
		}
	}

	srOpts := []sr.ClientOpt{sr.URLs(brokerCfg.SchemaRegistryURLs...)}
	if tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	topic := brokerCfg.Topics.CatalogEvents
	serde, err := schema.NewSerdeCatalogEventV1(
		app.ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewCatalogEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, brokerCfg.SeedBrokers, topic, tlsConfig,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.events = &producer
}

func (app *App) initCoreService() {
	var events port.CatalogEventsProducer
	if app.events != nil {
		events = app.events
	}

	app.service = service.New(
		app.repositories.products,
		app.repositories.users,
		picture.New(
			app.cfg.Image.Width, app.cfg.Image.Height, app.cfg.Image.Quality,
		),
		passwd.NewBcryptHasher(app.cfg.BcryptCost),
		events,
	).WithPublishTimeout(app.cfg.Broker.PublishTimeout)

	if app.cfg.Broker.PublishTimeout >= app.cfg.HTTPRequestTimeout {
		slog.Warn(
			"catalog event publishing may outlast http requests",
			"publishTimeout", app.cfg.Broker.PublishTimeout,
			"requestTimeout", app.cfg.HTTPRequestTimeout,
		)
	}
}

func (app *App) initInboundAdapters() {
	app.sessions = sessionstore.New(sessionstore.Config{
		CookieName:  app.cfg.Session.CookieName,
		AuthKey:     []byte(app.cfg.Session.AuthKey),
		IdleTimeout: app.cfg.Session.IdleTimeout,
		Secure:      app.cfg.Session.Secure,
	})

	mux := http.NewServeMux()
	httphandler.Register(mux, httphandler.Services{
		Catalog:  app.service,
		Accounts: app.service,
		Shopping: app.service,
	}, app.db)

	handler := httphandler.NewHandler(mux, app.sessions)
	app.httpServer = httphandler.NewHTTPServer(httphandler.ServerConfig{
		Addr:           app.cfg.HTTPServerAddr,
		RequestTimeout: app.cfg.HTTPRequestTimeout,
	}, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.events != nil {
		app.events.Close()
	}
	app.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
