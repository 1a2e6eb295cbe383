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

	adminCancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/admin_cancel_appointment"
	bookAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	confirmPaymentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_payment"
	createDoctorHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_doctor"
	createPaymentIntentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_payment_intent"
	getAllAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_all_appointments"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getBookedSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booked_slots"
	getUserAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_user_appointments"
	listDoctorsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_doctors"
	paymentWebhookHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/payment_webhook"
	setDoctorAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_doctor_availability"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	doctorRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/doctor"
	reservationRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reservation"
	profileServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stripeclient"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	doctorsService "github.com/m04kA/SMC-AppointmentService/internal/service/doctors"
	bookAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	confirmPaymentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
	createPaymentIntentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_payment_intent"
	paymentWebhookUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/payment_webhook"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
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
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	stripeClient := stripeclient.NewClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		time.Duration(cfg.Stripe.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s timeout=%ds, Stripe timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout, cfg.Stripe.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		doctorRepository      *doctorRepo.Repository
		reservationRepository *reservationRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		doctorRepository = doctorRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		doctorRepository = doctorRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)
	doctorSvc := doctorsService.NewService(doctorRepository, reservationRepository, log)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		doctorRepository,
		reservationRepository,
		profileClient,
		txMgr,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		doctorRepository,
		reservationRepository,
		txMgr,
		log,
	)
	createPaymentIntentUseCase := createPaymentIntentUC.NewUseCase(
		appointmentRepository,
		doctorRepository,
		stripeClient,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		appointmentRepository,
		stripeClient,
		log,
	)
	paymentWebhookUseCase := paymentWebhookUC.NewUseCase(
		appointmentRepository,
		stripeClient,
		log,
	)

	// Инициализируем handlers
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	createPaymentIntent := createPaymentIntentHandler.NewHandler(createPaymentIntentUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentWebhookUseCase, log)
	listDoctors := listDoctorsHandler.NewHandler(doctorSvc, log)
	getBookedSlots := getBookedSlotsHandler.NewHandler(doctorSvc, log)
	createDoctor := createDoctorHandler.NewHandler(doctorSvc, log)
	setDoctorAvailability := setDoctorAvailabilityHandler.NewHandler(doctorSvc, log)
	getAllAppointments := getAllAppointmentsHandler.NewHandler(appointmentSvc, log)
	adminCancelAppointment := adminCancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)

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

	// Каталог врачей
	api.HandleFunc("/doctors", listDoctors.Handle).Methods(http.MethodGet)

	// Занятые слоты врача
	api.HandleFunc("/doctors/{doctorId}/booked-slots", getBookedSlots.Handle).Methods(http.MethodGet)

	// Асинхронные уведомления платёжного процессора
	// (аутентификация — подпись в заголовке Stripe-Signature)
	api.HandleFunc("/payments/stripe/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Записи ---
	// Бронирование слота
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей пациента
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Оплата ---
	// Создание payment intent
	protected.HandleFunc("/appointments/{appointmentId}/payment-intent",
		createPaymentIntent.Handle).Methods(http.MethodPost)

	// Синхронное подтверждение оплаты
	protected.HandleFunc("/appointments/{appointmentId}/confirm-payment",
		confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Auth.AdminToken, log))

	// Создание профиля врача
	admin.HandleFunc("/doctors", createDoctor.Handle).Methods(http.MethodPost)

	// Смена доступности врача
	admin.HandleFunc("/doctors/{doctorId}/availability",
		setDoctorAvailability.Handle).Methods(http.MethodPatch)

	// Все записи с фильтрацией
	admin.HandleFunc("/appointments", getAllAppointments.Handle).Methods(http.MethodGet)

	// Административная отмена записи
	admin.HandleFunc("/appointments/{appointmentId}/cancel",
		adminCancelAppointment.Handle).Methods(http.MethodPatch)

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
