package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/maidaan/maidaan/internal/config"
	"github.com/maidaan/maidaan/internal/database"
	"github.com/maidaan/maidaan/internal/handler"
	"github.com/maidaan/maidaan/internal/logger"
	"github.com/maidaan/maidaan/internal/middleware"
	"github.com/maidaan/maidaan/internal/obs"
	"github.com/maidaan/maidaan/internal/queue"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/router"
	"github.com/maidaan/maidaan/internal/service"
	"github.com/maidaan/maidaan/internal/validate"
	"github.com/maidaan/maidaan/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("prod").Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.Env)
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.OTelEnabled, cfg.OTelEndpoint, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracer")
	}

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mysql")
	}
	defer db.Close()
	applied, err := database.Migrate(ctx, db, migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	for _, r := range applied {
		log.Info().Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("migration applied")
	}

	// Redis backs the response cache and the rate limiter.  Without it both
	// degrade to pass-through.
	var rdb *redis.Client
	if rc, err := config.LoadRedisConfig(); err != nil {
		log.Warn().Err(err).Msg("redis config invalid, cache and rate limit disabled")
	} else if rdb, err = config.NewRedisClient(rc); err != nil {
		log.Warn().Err(err).Str("addr", rc.Addr).Msg("redis unavailable, cache and rate limit disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}
	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load cache config")
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load rate limit config")
	}

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := service.NewPublisher(cfg.RabbitURL, cfg.MatchExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, match events disabled")
		} else {
			defer p.Close()
			pub = p
			consumer := queue.NewConsumer(queue.ConsumerConfig{
				URL:      cfg.RabbitURL,
				Exchange: cfg.MatchExchange,
				Queue:    cfg.MatchQueue,
				LogPath:  cfg.BookingLogPath,
			}, log)
			go func() {
				if err := consumer.Run(ctx); err != nil {
					log.Error().Err(err).Msg("booking consumer stopped")
				}
			}()
		}
	}

	profiles := repository.NewProfileRepo(db)
	tokens := repository.NewTokenRepo(db)
	venues := repository.NewVenueRepo(db)
	matches := repository.NewMatchRepo(db)

	purger := middleware.NewCachePurger(cacheCfg, rdb, log)
	bookingSvc := service.NewBookingService(venues, matches, pub, log, loc)
	venueSvc := service.NewVenueService(venues, purger, log)
	statsSvc := service.NewStatsService(venues, matches, loc)

	authH := handler.NewAuthHandler(handler.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, profiles, tokens, log)
	profileH := handler.NewProfileHandler(profiles, log)
	venueH := handler.NewVenueHandler(venueSvc, log)
	slotH := handler.NewSlotHandler(bookingSvc, log)
	matchH := handler.NewMatchHandler(bookingSvc, log)
	statsH := handler.NewStatsHandler(statsSvc, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))

	cache := middleware.NewRedisCache(cacheCfg, rdb)
	limit := middleware.NewTokenBucket(rlCfg, rdb, log)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, venueH, slotH, cfg.JWTSecret, cache)
	router.RegisterMember(e, matchH, profileH, cfg.JWTSecret, limit)
	router.RegisterPlayer(e, matchH, cfg.JWTSecret, limit)
	router.RegisterAdmin(e, venueH, matchH, statsH, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, obs.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("tz", loc.String()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
}
