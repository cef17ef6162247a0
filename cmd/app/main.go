package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pharmacy/cmd"
	httpadapter "pharmacy/internal/adapters/in/http"
	"pharmacy/internal/adapters/out/kafka"
	"pharmacy/internal/adapters/out/memory"
	"pharmacy/internal/adapters/out/notifylog"
	"pharmacy/internal/adapters/out/postgres"
	"pharmacy/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	logger := newLogger(configs.LogLevel)

	if err = run(configs, logger); err != nil {
		log.Fatal(err)
	}
}

// run serves until a shutdown signal or a server failure, then stops the jobs and
// flushes the sender.
func run(configs cmd.Config, logger *slog.Logger) error {
	factory, err := openStorage(configs)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", configs.Storage, err)
	}

	sender, closeSender, err := openSender(configs, logger)
	if err != nil {
		return fmt.Errorf("create notification sender: %w", err)
	}
	defer closeSender()

	app := cmd.NewCompositionRoot(configs, factory, sender, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.Jobs.Enabled {
		jobManager := app.CreateJobManager()
		if err = jobManager.StartAll(); err != nil {
			return fmt.Errorf("start jobs: %w", err)
		}
		defer jobManager.StopAll()
	}

	if err = runWebServer(ctx, &app, configs.HTTPPort); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func openStorage(configs cmd.Config) (ports.UnitOfWorkFactory, error) {
	if configs.Storage == cmd.StorageMemory {
		return memory.NewUnitOfWorkFactory(memory.NewStore()), nil
	}

	db, err := gorm.Open(gorm_postgres.Open(configs.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return postgres.NewGormUnitOfWorkFactory(db), nil
}

func openSender(configs cmd.Config, logger *slog.Logger) (ports.NotificationSender, func(), error) {
	if len(configs.Kafka.Brokers) == 0 {
		return notifylog.NewSender(logger), func() {}, nil
	}

	sender, err := kafka.NewSender(configs.Kafka.Brokers, configs.Kafka.Topic, logger)
	if err != nil {
		return nil, nil, err
	}
	return sender, func() {
		if closeErr := sender.Close(); closeErr != nil {
			logger.Error("Failed to flush notifications", "error", closeErr)
		}
	}, nil
}

func runWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	httpadapter.RegisterHandlers(e, app.CreateHTTPServer())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
