package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campusops/roombooking/internal/app"
	"github.com/campusops/roombooking/internal/booking"
	"github.com/campusops/roombooking/internal/config"
	"github.com/campusops/roombooking/internal/notify"
	"github.com/campusops/roombooking/internal/report"
	"github.com/campusops/roombooking/internal/repository"
	"github.com/campusops/roombooking/internal/seed"
	"github.com/campusops/roombooking/internal/suggest"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir := booking.NewDirectory(logger)
	reporter := report.NewReporter(dir)

	if cfg.MirrorEnabled() {
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
		if err != nil {
			logger.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := migrator.Run(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		migrator.Close()

		mirror := repository.NewBookingLogRepository(pool)
		if err := replayMirror(ctx, dir, mirror, logger); err != nil {
			logger.Fatal("Failed to replay booking log", zap.Error(err))
		}
		// The mirror starts observing only after replay, so restored
		// commits are not written back a second time.
		dir.AddObserver(mirror)
	}

	loader := seed.NewLoader(dir, logger)
	if _, err := loader.LoadDir(ctx, cfg.SeedDir); err != nil {
		logger.Fatal("Failed to load seed data", zap.Error(err))
	}

	if cfg.NotificationsEnabled() {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		dir.AddObserver(notifier)
	}

	srv := newServer(dir, reporter, suggest.NewHeuristic(), logger)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.routes(),
	}

	go func() {
		logger.Info("Starting booking server",
			zap.String("environment", cfg.Environment),
			zap.String("addr", cfg.ListenAddr),
			zap.Bool("mirror", cfg.MirrorEnabled()),
			zap.Bool("notifications", cfg.NotificationsEnabled()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down, waiting for pending requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// replayMirror restores the persisted directory state into the fresh
// in-memory one. Conflicts mean the log was written by a directory with the
// same invariants, so anything rejected here is logged, not fatal.
func replayMirror(ctx context.Context, dir *booking.Directory, mirror *repository.BookingLogRepository, logger *zap.Logger) error {
	rooms, err := mirror.Rooms(ctx)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		if err := dir.RegisterRoom(ctx, room.ID, room.Branch, room.Capacity); err != nil && !errors.Is(err, booking.ErrRoomExists) {
			return err
		}
	}

	professors, err := mirror.Professors(ctx)
	if err != nil {
		return err
	}
	for _, prof := range professors {
		if err := dir.RegisterProfessor(ctx, prof.ID, prof.Name, prof.Branch); err != nil && !errors.Is(err, booking.ErrProfessorExists) {
			return err
		}
	}

	commits, err := mirror.Commits(ctx)
	if err != nil {
		return err
	}
	restored := 0
	for _, commit := range commits {
		_, err := dir.BookRoomForProfessor(ctx,
			commit.Record.Professor,
			commit.Room,
			commit.Date,
			commit.Slot,
			commit.Record.CourseName,
			commit.Record.Purpose,
		)
		if err != nil {
			logger.Warn("Skipping unreplayable booking log entry",
				zap.String("booking_id", commit.Record.ID),
				zap.Error(err),
			)
			continue
		}
		restored++
	}

	logger.Info("Booking log replayed",
		zap.Int("rooms", len(rooms)),
		zap.Int("professors", len(professors)),
		zap.Int("bookings", restored),
	)
	return nil
}
