package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/orgball2608/community-feed-engine/internal/activityapi"
	"github.com/orgball2608/community-feed-engine/internal/activityapi/httpimpl"
	"github.com/orgball2608/community-feed-engine/internal/activityapi/pgimpl"
	"github.com/orgball2608/community-feed-engine/internal/feed"
	"github.com/orgball2608/community-feed-engine/internal/feed/feedimpl"
	_ "github.com/orgball2608/community-feed-engine/internal/migrations"
	"github.com/orgball2608/community-feed-engine/internal/pgx"
	"github.com/orgball2608/community-feed-engine/internal/pubsub"
	"github.com/orgball2608/community-feed-engine/internal/pubsub/redisimpl"
	repositories "github.com/orgball2608/community-feed-engine/internal/repositories/fx"
	"github.com/orgball2608/community-feed-engine/internal/validation"
	"github.com/orgball2608/community-feed-engine/pkg/config"
	"github.com/orgball2608/community-feed-engine/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

// SourceDriver values accepted in SOURCE_DRIVER.
const (
	DriverHTTP     = "http"
	DriverPostgres = "postgres"
)

// Options assembles the dependency graph. The data-access collaborator is
// chosen by config: "http" talks to the community backend's REST API,
// "postgres" serves straight from the database.
func Options() (fx.Option, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	base := fx.Options(
		fx.Provide(
			config.New,
			logger.FxOption,
			validation.New,
		),
		fx.Provide(
			fx.Annotate(
				redisimpl.New,
				fx.As(new(pubsub.Client)),
			),
			fx.Annotate(
				feedimpl.New,
				fx.As(new(feed.Engine)),
			),
		),
		fx.Invoke(run),
	)

	switch cfg.Source.Driver {
	case DriverPostgres:
		return fx.Options(
			base,
			fx.Provide(pgx.New),
			repositories.Module,
			fx.Provide(
				fx.Annotate(
					pgimpl.New,
					fx.As(new(activityapi.Client)),
				),
			),
			fx.Invoke(migrate),
		), nil
	case DriverHTTP:
		return fx.Options(
			base,
			fx.Provide(
				fx.Annotate(
					httpimpl.New,
					fx.As(new(activityapi.Client)),
				),
			),
		), nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

func migrate(c *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Schema lives in Go migrations registered at import time, so the
	// directory argument is only a version source.
	return goose.Up(db, ".")
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, engine feed.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go startHttpServer(log, cfg)

			if err := engine.ScheduleRefresh(context.Background()); err != nil {
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return engine.Close(ctx)
		},
	})
}

// Run starts the application and blocks until an interrupt arrives.
func Run(log *logger.Impl) error {
	opts, err := Options()
	if err != nil {
		return err
	}

	app := fx.New(
		fx.Logger(log),
		opts,
	)

	if err := app.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
