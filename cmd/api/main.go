package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	httpadp "chapter-fund-ledger/internal/adapter/http"
	"chapter-fund-ledger/internal/adapter/middleware"
	"chapter-fund-ledger/internal/adapter/repository/mysql"
	"chapter-fund-ledger/internal/config"
	"chapter-fund-ledger/internal/domain/ledgerevent"
	"chapter-fund-ledger/internal/infrastructure/amqp"
	"chapter-fund-ledger/internal/infrastructure/cache"
	"chapter-fund-ledger/internal/infrastructure/db"
	"chapter-fund-ledger/internal/infrastructure/logger"
	clubuc "chapter-fund-ledger/internal/usecase/club"
	donationuc "chapter-fund-ledger/internal/usecase/donation"
	eventuc "chapter-fund-ledger/internal/usecase/event"
	expenseuc "chapter-fund-ledger/internal/usecase/expense"
	"chapter-fund-ledger/internal/usecase/identity"
	reportuc "chapter-fund-ledger/internal/usecase/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:     logger.ParseLevel(cfg.LogLevel),
		Component: logger.ComponentApp,
		JSON:      cfg.LogJSON,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := db.RunMigrations(cfg.MySQLDSN(), log); err != nil {
			return err
		}
	}
	gdb, err := db.OpenGorm(cfg.MySQLDSN(), db.Options{LogLevel: cfg.DBLogLevel, Log: log})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Summary invalidation always runs; the broker is optional.
	summaries := cache.NewSummaryCache(rdb, cfg.SummaryCacheTTL(), log)
	events := ledgerevent.Multi{summaries}
	if cfg.AMQPURL != "" {
		pub, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		events = append(events, pub)
	}

	tx := mysql.NewGormUoW(gdb)
	resolver := identity.NewResolver(mysql.NewMemberRepository(gdb), tx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.HTTPErrorHandler = httpadp.NewErrorHandler(log)
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(log),
		echomw.ContextTimeout(cfg.RequestTimeout),
	)

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.HealthCheck{Name: "mysql", Check: sqlDB.PingContext},
			httpadp.HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Clubs:     httpadp.NewClubHandler(clubuc.NewUsecase(tx, log), resolver),
		Events:    httpadp.NewEventHandler(eventuc.NewUsecase(tx, events, log)),
		Donations: httpadp.NewDonationHandler(donationuc.NewUsecase(tx, events, log)),
		Expenses:  httpadp.NewExpenseHandler(expenseuc.NewUsecase(tx, events, log)),
		Reports:   httpadp.NewReportHandler(reportuc.NewUsecase(tx, summaries, log)),
	}, httpadp.Guards{
		Authenticate:  middleware.Authenticate([]byte(cfg.JWTSecret), cfg.JWTIssuer),
		RequireMember: middleware.RequireMember(resolver),
		Idempotency:   middleware.Idempotency(rdb, cfg.IdempotencyTTL(), log),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
