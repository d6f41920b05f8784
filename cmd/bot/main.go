package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/vkarpenko/dance-lessons-bot/internal/app"
	"github.com/vkarpenko/dance-lessons-bot/internal/config"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/dialog"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/state"
	"github.com/vkarpenko/dance-lessons-bot/internal/controller/telegram"
	"github.com/vkarpenko/dance-lessons-bot/internal/metrics"
	"github.com/vkarpenko/dance-lessons-bot/internal/repository"
	"github.com/vkarpenko/dance-lessons-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting dance lessons bot",
		zap.String("environment", cfg.Environment),
		zap.Int64("admin_chat_id", cfg.AdminChatID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории и сервисы
	m := metrics.New()
	slotRepo := repository.NewSlotRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	ledger := service.NewLedgerService(pool, slotRepo, reservationRepo, m, logger)

	// Сидирование статичного расписания
	seeder := service.NewSeeder(slotRepo, logger)
	if err := seeder.Run(ctx, service.DefaultSchedule); err != nil {
		logger.Fatal("Failed to seed schedule", zap.Error(err))
	}

	// Сессии диалогов
	sessions := state.NewManager(cfg.SessionTTL, logger)
	go sessions.Run(ctx, time.Minute)

	// Telegram
	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	messenger := telegram.NewMessenger(botInstance)
	dialogController := dialog.NewController(sessions, ledger, messenger, cfg.AdminChatID, logger)
	botController := telegram.NewBotController(botInstance, dialogController, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Напоминания о занятиях за час до начала
	reminder := app.NewReminder(ledger, messenger, logger)
	reminder.Start(ctx)
	defer reminder.Stop()

	// Служебный HTTP: метрики и проверка живости
	go serveOps(ctx, cfg.MetricsAddr, pool, m, sessions, logger)

	botController.Start(ctx)

	logger.Info("Bot stopped")
}

// serveOps поднимает служебный HTTP-листенер с /metrics и /healthz
func serveOps(ctx context.Context, addr string, pool *pgxpool.Pool, m *metrics.Metrics, sessions *state.Manager, logger *zap.Logger) {
	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.SetActiveSessions(sessions.Len())
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
				return
			}
		}
	}()

	logger.Info("Ops listener started", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Ops listener failed", zap.Error(err))
	}
}
