package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carepulse/booking-api/cmd/mainconfig"
	"github.com/carepulse/booking-api/internal/api/router"
	"github.com/carepulse/booking-api/internal/appointments"
	appconfig "github.com/carepulse/booking-api/internal/config"
	"github.com/carepulse/booking-api/internal/notifications"
	"github.com/carepulse/booking-api/internal/observability/metrics"
	"github.com/carepulse/booking-api/internal/patients"
	"github.com/carepulse/booking-api/internal/physicians"
	"github.com/carepulse/booking-api/pkg/logging"
)

func main() {
	// Load .env if present (local development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting carepulse booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Stores
	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	appointmentStore := appointments.NewStore(dynamoClient, cfg.AppointmentsTable, logger)
	patientStore := patients.NewStore(dynamoClient, cfg.PatientsTable, logger)

	// Physician roster
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	directory := physicians.NewDirectory(redisClient)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// SMS gateway. Without Twilio credentials the stub sender logs the
	// message body instead, which keeps local development working.
	var sms appointments.TextSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		sms = notifications.NewTwilioGateway(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
			patientStore.PhoneByUserID,
			logger,
		)
	} else {
		logger.Warn("twilio credentials missing, using stub SMS sender")
		sms = notifications.NewStubSender(logger)
	}

	// Services and handlers
	svc := appointments.NewService(appointmentStore, sms, bookingMetrics, logger)
	agg := appointments.NewAggregator(appointmentStore, logger)
	appointmentsHandler := appointments.NewHandler(svc, agg, directory, logger)
	patientsHandler := patients.NewHandler(patientStore, logger)
	physiciansHandler := physicians.NewHandler(directory, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointmentsHandler,
		PatientsHandler:     patientsHandler,
		PhysiciansHandler:   physiciansHandler,
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		PublicRateLimit:     cfg.PublicRateLimit,
		PublicRateBurst:     cfg.PublicRateBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("failed to close redis client", "error", err)
	}

	logger.Info("server stopped")
}
