package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"solara/auth"
	"solara/config"
	"solara/constants"
	"solara/database"
	"solara/logging"
	"solara/media"
	"solara/site"
	"syscall"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

const usage = `usage: solara [serve|migrate|rollback|seed] [--config file]

  serve     apply pending migrations and start the HTTP server (default)
  migrate   apply pending migrations and exit
  rollback  revert the most recently applied migration and exit
  seed      apply pending migrations and create the admin account from
            ADMIN_EMAIL / ADMIN_PASSWORD
`

func main() {
	flags := pflag.NewFlagSet("solara", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "optional config file (yaml, json, toml or env)")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	_ = flags.Parse(os.Args[1:])

	command := "serve"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.Open(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if command == "rollback" {
		if err := database.RollbackLast(db); err != nil {
			logging.Fatal().Err(err).Msg("failed to roll back migration")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	switch command {
	case "migrate":
		return
	case "seed":
		if _, _, err := database.NewAccounts(db).SeedAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logging.Fatal().Err(err).Msg("failed to seed admin account")
		}
		return
	case "serve":
		if err := serve(cfg, db); err != nil {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	default:
		flags.Usage()
		os.Exit(2)
	}
}

func serve(cfg *config.Config, db *gorm.DB) error {
	r, err := initRouter(cfg, db)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case sig := <-signals:
		logging.Info().Str("signal", sig.String()).Msg("shutting down gracefully")
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.SHUTDOWN_TIMEOUT)
	defer cancel()
	return server.Shutdown(ctx)
}

func initRouter(cfg *config.Config, db *gorm.DB) (*chi.Mux, error) {
	issuer, err := auth.NewIssuer(database.NewAccounts(db), cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	store, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	s := site.New(db, issuer, store)
	guard := auth.Guard(issuer)

	r := chi.NewRouter()

	CORSMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(CORSMiddleware.Handler)
	r.Use(middleware.RealIP)
	r.Use(site.RequestLogger)
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.With(httprate.LimitByIP(cfg.LoginRateLimitPerMinute, time.Minute)).Post("/auth/login", s.Login)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.ListPosts)
		r.Get("/{postID}", s.GetPost)

		r.With(guard).Post("/", s.CreatePost)
		r.With(guard).Put("/{postID}", s.UpdatePost)
		r.With(guard).Delete("/{postID}", s.DeletePost)
	})

	r.Route("/markets", func(r chi.Router) {
		r.Get("/", s.ListMarkets)
		r.Get("/properties/featured", s.FeaturedProperties)
		r.Get("/id/{market}", s.GetMarketByID)
		r.Get("/{market}", s.GetMarketBySlug)

		r.With(guard).Post("/", s.CreateMarket)
		r.With(guard).Put("/{market}", s.UpdateMarket)
		r.With(guard).Delete("/{market}", s.DeleteMarket)
		r.With(guard).Post("/{market}/properties", s.AddProperty)
		r.With(guard).Delete("/properties/{propertyID}", s.DeleteProperty)
	})

	r.With(guard).Post("/uploads", s.Upload)
	r.Handle("/uploads/*", site.UploadsServer(store.Dir()))

	r.Get("/share/posts/{slug}", s.SharePost)

	return r, nil
}
