package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookingCancelledHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/booking_cancelled"
	claimOfferHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/claim_offer"
	createEntryHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/create_entry"
	getEntryHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/get_entry"
	lifecycleSweepHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/lifecycle_sweep"
	listEntriesHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/list_entries"
	notifyEntryHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/notify_entry"
	withdrawEntryHandler "github.com/m04kA/SMC-WaitlistService/internal/api/handlers/withdraw_entry"
	"github.com/m04kA/SMC-WaitlistService/internal/api/middleware"
	"github.com/m04kA/SMC-WaitlistService/internal/config"
	auditRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/audit"
	waitlistRepo "github.com/m04kA/SMC-WaitlistService/internal/infra/storage/waitlist"
	calendarClient "github.com/m04kA/SMC-WaitlistService/internal/integrations/calendar"
	notifierClient "github.com/m04kA/SMC-WaitlistService/internal/integrations/notifier"
	waitlistService "github.com/m04kA/SMC-WaitlistService/internal/service/waitlist"
	handleCancellationUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/handle_cancellation"
	issueOfferUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/issue_offer"
	resolveClaimUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/resolve_claim"
	sweepLifecycleUC "github.com/m04kA/SMC-WaitlistService/internal/usecase/sweep_lifecycle"
	"github.com/m04kA/SMC-WaitlistService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/logger"
	"github.com/m04kA/SMC-WaitlistService/pkg/metrics"
	"github.com/m04kA/SMC-WaitlistService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-WaitlistService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-WaitlistService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	calendar := calendarClient.NewClient(
		cfg.CalendarService.URL,
		time.Duration(cfg.CalendarService.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.NotifierService.URL,
		time.Duration(cfg.NotifierService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (Calendar=%s timeout=%ds, Notifier=%s timeout=%ds)",
		cfg.CalendarService.URL, cfg.CalendarService.Timeout, cfg.NotifierService.URL, cfg.NotifierService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		waitlistRepository *waitlistRepo.Repository
		auditRepository    *auditRepo.Repository
		txMgr              issueOfferUC.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		waitlistRepository = waitlistRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	waitlistSvc := waitlistService.NewService(waitlistRepository, auditRepository, log)

	// Инициализируем use cases
	issueOfferUseCase := issueOfferUC.NewUseCase(
		waitlistRepository,
		calendar,
		notifier,
		auditRepository,
		txMgr,
		issueOfferUC.Config{
			OfferTTL:     time.Duration(cfg.Waitlist.OfferTTLMinutes) * time.Minute,
			ClaimBaseURL: cfg.Waitlist.ClaimBaseURL,
		},
		log,
	)

	resolveClaimUseCase := resolveClaimUC.NewUseCase(
		waitlistRepository,
		calendar,
		auditRepository,
		resolveClaimUC.Config{
			Cooldown: time.Duration(cfg.Waitlist.CooldownMinutes) * time.Minute,
		},
		log,
	)

	sweepLifecycleUseCase := sweepLifecycleUC.NewUseCase(
		waitlistRepository,
		auditRepository,
		sweepLifecycleUC.Config{BatchSize: cfg.Waitlist.SweepBatchSize},
		log,
	)

	handleCancellationUseCase := handleCancellationUC.NewUseCase(
		waitlistRepository,
		calendar,
		issueOfferUseCase,
		handleCancellationUC.Config{CandidateLimit: cfg.Waitlist.SweepBatchSize},
		log,
	)

	// Инициализируем handlers
	createEntry := createEntryHandler.NewHandler(waitlistSvc, log)
	listEntries := listEntriesHandler.NewHandler(waitlistSvc, log)
	getEntry := getEntryHandler.NewHandler(waitlistSvc, log)
	withdrawEntry := withdrawEntryHandler.NewHandler(waitlistSvc, log)
	notifyEntry := notifyEntryHandler.NewHandler(issueOfferUseCase, log)
	claimOffer := claimOfferHandler.NewHandler(resolveClaimUseCase, log)
	bookingCancelled := bookingCancelledHandler.NewHandler(handleCancellationUseCase, log)
	lifecycleSweep := lifecycleSweepHandler.NewHandler(sweepLifecycleUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Постановка в лист ожидания (публичная форма записи)
	api.HandleFunc("/salons/{salonId}/waitlist", createEntry.Handle).Methods(http.MethodPost)

	// Погашение оффера по токену из письма
	api.HandleFunc("/claims/{offerToken}", claimOffer.Handle).Methods(http.MethodPost)
	api.HandleFunc("/claims/{offerToken}/decline", claimOffer.HandleDecline).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Лист ожидания салона ---
	// Список записей с фильтрацией
	protected.HandleFunc("/salons/{salonId}/waitlist", listEntries.Handle).Methods(http.MethodGet)

	// Запись с журналом действий
	protected.HandleFunc("/salons/{salonId}/waitlist/{entryId}", getEntry.Handle).Methods(http.MethodGet)

	// Отзыв записи
	protected.HandleFunc("/salons/{salonId}/waitlist/{entryId}/withdraw", withdrawEntry.Handle).Methods(http.MethodPatch)

	// Ручная выдача оффера оператором
	protected.HandleFunc("/salons/{salonId}/waitlist/{entryId}/notify", notifyEntry.Handle).Methods(http.MethodPost)

	// Хук отмены брони от букинг-сервиса
	protected.HandleFunc("/salons/{salonId}/cancellations", bookingCancelled.Handle).Methods(http.MethodPost)

	// ============================================================
	// SERVICE ROUTES (общий секрет для планировщика)
	// ============================================================

	jobs := api.PathPrefix("/jobs").Subrouter()
	jobs.Use(middleware.SweepAuth(cfg.Waitlist.SweepToken))
	jobs.HandleFunc("/lifecycle-sweep", lifecycleSweep.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
