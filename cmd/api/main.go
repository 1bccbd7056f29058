package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/quickcare/quickcare-backend/internal/api/router"
	"github.com/quickcare/quickcare-backend/internal/auth"
	"github.com/quickcare/quickcare-backend/internal/bookings"
	"github.com/quickcare/quickcare-backend/internal/classroom"
	"github.com/quickcare/quickcare-backend/internal/clinics"
	appconfig "github.com/quickcare/quickcare-backend/internal/config"
	"github.com/quickcare/quickcare-backend/internal/llm"
	"github.com/quickcare/quickcare-backend/internal/negotiation"
	"github.com/quickcare/quickcare-backend/internal/notify"
	"github.com/quickcare/quickcare-backend/internal/observability/metrics"
	"github.com/quickcare/quickcare-backend/internal/realtime"
	"github.com/quickcare/quickcare-backend/internal/triage"
	"github.com/quickcare/quickcare-backend/internal/voice"
	"github.com/quickcare/quickcare-backend/pkg/logging"
)

// noProvider satisfies llm.Client when no API keys are configured; every
// consumer degrades to its fallback path.
type noProvider struct{}

func (noProvider) Complete(context.Context, llm.Request) (llm.Response, error) {
	return llm.Response{}, errors.New("no completion provider configured")
}

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting quickcare API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.DefaultRegisterer
	flowMetrics := metrics.NewBookingFlowMetrics(reg)

	// Completion providers: Gemini first, OpenAI as fallback.
	llmClient := buildLLMClient(ctx, cfg, logger)

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local demos.
	var (
		clinicRepo  clinics.Repository
		bookingRepo bookings.Repository
		userRepo    auth.Repository
		sqlDB       *sql.DB
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		clinicRepo = clinics.NewPostgresRepository(pool)
		bookingRepo = bookings.NewPostgresRepository(pool)
		userRepo = auth.NewPostgresRepository(pool)

		// The realtime notifier needs a lib/pq connection for LISTEN.
		sqlDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open listener connection", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		clinicRepo = clinics.NewInMemoryRepository(clinics.SeedClinics())
		bookingRepo = bookings.NewInMemoryRepository()
		userRepo = auth.NewInMemoryRepository()
	}

	// Redis mirror for live transcripts; optional.
	var transcripts *negotiation.TranscriptStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable, transcript mirror disabled", "error", err)
		} else {
			transcripts = negotiation.NewTranscriptStore(redisClient)
		}
		cancel()
		defer redisClient.Close()
	}

	// Realtime feed: LISTEN/NOTIFY when a database is present, in-process
	// otherwise.
	hub := realtime.NewHub(logger)
	var publisher bookings.ChangePublisher
	if sqlDB != nil {
		notifier := realtime.NewNotifier(sqlDB, cfg.DatabaseURL, cfg.BookingChangeChannel, logger)
		events, err := notifier.Listen(ctx)
		if err != nil {
			logger.Error("failed to start booking change listener", "error", err)
			os.Exit(1)
		}
		go hub.Run(ctx, events)
		publisher = notifier
	} else {
		publisher = realtime.NewLocalPublisher(hub)
	}

	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)

	// Services.
	bookingSvc := bookings.NewService(bookingRepo, publisher, emailSender, flowMetrics, logger)
	triageSvc := triage.NewService(llmClient, flowMetrics, logger)
	matcher := clinics.NewMatcher(clinicRepo, logger)
	engine := negotiation.NewEngine(llmClient, logger,
		negotiation.WithDelays(cfg.TurnDelay, cfg.ConfirmDelay))
	negotiationSvc := negotiation.NewService(engine, bookingSvc, transcripts, flowMetrics, logger)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, tokens are signed with an empty key")
	}
	authSvc := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)

	var voiceHandler *voice.Handler
	if cfg.VoiceAPIKey != "" {
		voiceClient, err := voice.New(voice.Config{
			BaseURL:       cfg.VoiceBaseURL,
			APIKey:        cfg.VoiceAPIKey,
			PhoneNumberID: cfg.VoicePhoneNumberID,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("failed to create voice client", "error", err)
			os.Exit(1)
		}
		voiceSvc := voice.NewService(voiceClient, bookingSvc, flowMetrics, logger,
			voice.WithConfirmDelay(cfg.RealCallConfirmDelay))
		voiceHandler = voice.NewHandler(voiceSvc, logger)
	} else {
		logger.Warn("VOICE_API_KEY not set, real call endpoint disabled")
	}

	// Router.
	r := router.New(&router.Config{
		Logger:             logger,
		AuthMiddleware:     auth.NewMiddleware(authSvc),
		AuthHandler:        auth.NewHandler(authSvc, logger),
		TriageHandler:      triage.NewHandler(triageSvc, logger),
		ClinicsHandler:     clinics.NewHandler(clinicRepo, matcher, logger),
		NegotiationHandler: negotiation.NewHandler(negotiationSvc, logger),
		VoiceHandler:       voiceHandler,
		BookingsHandler:    bookings.NewHandler(bookingRepo, bookingSvc, logger),
		RealtimeHandler:    realtime.NewHandler(hub, logger),
		ClassroomHandler:   classroom.NewHandler(),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: strings.Split(cfg.CORSAllowedOrigins, ","),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// No WriteTimeout: negotiations stream for the length of a scripted
		// call, and real calls block through the confirmation window.
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) llm.Client {
	var primary, fallback llm.Client

	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
		} else {
			primary = gemini
		}
	}
	if cfg.OpenAIAPIKey != "" {
		openai, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModelID)
		if err != nil {
			logger.Error("failed to create openai client", "error", err)
		} else {
			fallback = openai
		}
	}

	switch {
	case primary != nil:
		return llm.NewFallbackClient(primary, fallback, logger)
	case fallback != nil:
		return fallback
	default:
		logger.Warn("no completion provider configured, AI features run on fallbacks")
		return noProvider{}
	}
}
