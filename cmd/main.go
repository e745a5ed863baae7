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

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	commitPlanHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/commit_treatment_plan"
	getAvailabilityHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_booking"
	getPatientBookingsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_patient_bookings"
	getTherapistBookingsHandler "github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers/get_therapist_bookings"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/config"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/cache/timeblocks"
	bookingRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/memory"
	calendarClient "github.com/m04kA/SMC-TherapyBookingService/internal/integrations/calendar"
	bookingsService "github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/recurrence"
	commitPlanUC "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/commit_treatment_plan"
	getAvailabilityUC "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/logger"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/metrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/txmanager"
)

// bookingStore репозиторий бронирований для записи и чтения
type bookingStore interface {
	commitPlanUC.BookingRepository
	bookingsService.BookingRepository
}

// storage набор адаптеров хранилища, общий для postgres и memory
type storage struct {
	resources commitPlanUC.ResourceQuery
	bookings  bookingStore
	catalog   timeblocks.Catalog
	txManager commitPlanUC.TransactionManager
	close     func()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, logger.WithRotation(logger.Rotation{
		MaxSizeMB:  cfg.Logs.MaxSizeMB,
		MaxBackups: cfg.Logs.MaxBackups,
		MaxAgeDays: cfg.Logs.MaxAgeDays,
		Compress:   cfg.Logs.Compress,
	}))
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TherapyBookingService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаем хранилище
	var store *storage
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store = openMemory()
		log.Warn("Using in-memory storage with demo catalog, bookings are lost on restart")
	default:
		store, err = openPostgres(cfg, metricsCollector, stopMetricsCh)
		if err != nil {
			log.Fatal("Failed to open database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	}
	defer store.close()

	// Кеш справочника временных блоков
	catalog := store.catalog
	if cfg.Cache.Enabled {
		rdb, err := timeblocks.Connect(context.Background(), cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		if err != nil {
			log.Error("Redis unavailable, time block cache disabled: %v", err)
		} else {
			defer rdb.Close()
			catalog = timeblocks.New(store.catalog, rdb, time.Duration(cfg.Cache.TTLSeconds)*time.Second, log)
			log.Info("Time block cache enabled (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
		}
	}

	// Публикация сессий в календарь
	var publisher commitPlanUC.CalendarPublisher
	if cfg.Calendar.Enabled {
		client, err := calendarClient.NewClient(context.Background(), calendarClient.Config{
			CredentialsFile: cfg.Calendar.CredentialsFile,
			CalendarID:      cfg.Calendar.CalendarID,
			Timezone:        cfg.Calendar.Timezone,
			Timeout:         time.Duration(cfg.Calendar.Timeout) * time.Second,
		}, log)
		if err != nil {
			log.Error("Calendar integration disabled: %v", err)
		} else {
			publisher = client
			log.Info("Calendar integration enabled (calendar_id=%s, timezone=%s)",
				cfg.Calendar.CalendarID, cfg.Calendar.Timezone)
		}
	}

	var planMetrics commitPlanUC.MetricsRecorder
	if metricsCollector != nil {
		planMetrics = metricsCollector
	}

	// Инициализируем сервисы и use cases
	bookingSvc := bookingsService.NewService(store.bookings, catalog, log)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		store.resources,
		catalog,
		cfg.Scheduling.MaxRangeDays,
		log,
	)

	commitPlanUseCase := commitPlanUC.NewUseCase(
		store.resources,
		store.bookings,
		catalog,
		recurrence.NewPlanner(domain.MaxSessionsPerWeek),
		store.txManager,
		publisher,
		planMetrics,
		cfg.Scheduling.MaxSessionsPerPlan,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	commitPlan := commitPlanHandler.NewHandler(commitPlanUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getPatientBookings := getPatientBookingsHandler.NewHandler(bookingSvc, log)
	getTherapistBookings := getTherapistBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Доступность слотов на диапазон дат
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Атомарный коммит плана лечения
	api.HandleFunc("/treatment-plans", commitPlan.Handle).Methods(http.MethodPost)

	// Чтение бронирований
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/patients/{patientId}/bookings", getPatientBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{therapistId}/bookings", getTherapistBookings.Handle).Methods(http.MethodGet)

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
	close(stopMetricsCh)

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

func openPostgres(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	// С nil metrics обёртка работает как прокси
	wrapped := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)
	bookings := bookingRepo.NewRepository(wrapped)

	return &storage{
		resources: bookings,
		bookings:  bookings,
		catalog:   catalogRepo.NewRepository(wrapped),
		txManager: txmanager.NewTransactionManager(wrapped),
		close:     func() { _ = db.Close() },
	}, nil
}

func openMemory() *storage {
	store := memory.NewClinic(2,
		&domain.TimeBlock{StartTime: "08:00", EndTime: "08:40"},
		&domain.TimeBlock{StartTime: "09:00", EndTime: "09:40"},
		&domain.TimeBlock{StartTime: "10:00", EndTime: "10:40"},
		&domain.TimeBlock{StartTime: "11:00", EndTime: "11:40"},
	)
	store.AddPatient(&domain.Patient{Name: "Demo patient"})
	store.AddPatient(&domain.Patient{Name: "Demo machine patient", UsesMachine: true})
	store.AddPatient(&domain.Patient{Name: "Demo special patient", RequiresSpecialHandling: true})

	return &storage{
		resources: store,
		bookings:  store,
		catalog:   store,
		txManager: store,
		close:     func() {},
	}
}
