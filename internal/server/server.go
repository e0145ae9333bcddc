package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/petprotect/hub/api"
	"github.com/petprotect/hub/internal/alerting"
	"github.com/petprotect/hub/internal/config"
	"github.com/petprotect/hub/internal/database"
	"github.com/petprotect/hub/internal/feeder"
	"github.com/petprotect/hub/internal/hubservice"
	"github.com/petprotect/hub/internal/liveness"
	"github.com/petprotect/hub/internal/monitoring"
	"github.com/petprotect/hub/internal/repository/postgres"
	"github.com/petprotect/hub/internal/telemetry"
	"github.com/petprotect/hub/internal/vitals"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

// Server owns the HTTP listener plus the background loops that drive the
// feeder and the vitals alerting.
type Server struct {
	config     *config.Config
	srv        *http.Server
	hubservice *hubservice.HubService
	monitoring *monitoring.Service

	db        database.DB
	redis     *redis.Client
	channel   telemetry.Channel
	scheduler *feeder.Scheduler
	sampler   *vitals.Sampler

	cancelBackground context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config:     cfg,
		monitoring: monitoring.NewService(),
	}
}

// Start wires all components, launches the background loops and listens
// until an interrupt arrives.
func (s *Server) Start() error {
	if err := s.initialize(); err != nil {
		return err
	}
	s.setupCleanupHandlers()

	router := api.NewRouter(s.hubservice)
	router.SetHealthCheck(s.handleHealth())

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      handlers.CombinedLoggingHandler(os.Stdout, corsHandler),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelBackground = cancel
	go s.scheduler.Run(ctx)
	go s.sampler.Run(ctx)

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.cancelBackground()
	s.channel.Close()
	if err := s.redis.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing redis client: %v", err)
	}
	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// initialize connects the database, Redis and the MQTT broker and builds
// the service graph on top of them.
func (s *Server) initialize() error {
	db, err := database.NewPostgresDB(s.config.Database.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	ctx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	s.db = db

	s.redis = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", s.config.Redis.Host, s.config.Redis.Port),
		Password: s.config.Redis.Password,
		DB:       s.config.Redis.DB,
	})
	if err := s.redis.Ping(ctx).Err(); err != nil {
		nuts.L.Warnf("[Server] Redis unreachable, push tokens unavailable: %v", err)
	}

	schedules := postgres.NewScheduleRepository(db)
	links := postgres.NewDeviceLinkRepository(db)
	vitalsRepo := postgres.NewVitalsRepository(db)
	notifications := postgres.NewNotificationRepository(db)
	pets := postgres.NewPetRepository(db)

	tracker := liveness.NewTracker(s.config.Feeder.WeightFreshness)
	channel, err := telemetry.NewPahoChannel(s.config.MQTT, func(m telemetry.WeightMessage) {
		tracker.OnWeight(m.Weight)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to mqtt broker: %w", err)
	}
	s.channel = channel

	s.scheduler = feeder.NewScheduler(channel, tracker, schedules, feeder.Config{
		SettleWindow:      s.config.Feeder.SettleWindow,
		DispenseThreshold: s.config.Feeder.DispenseThreshold,
	})

	tokens := alerting.NewTokenStore(s.redis)
	relay := alerting.NewExpoRelay(s.config.Push.RelayEndpoint, &http.Client{
		Timeout: s.config.Push.Timeout,
	})
	dispatcher := alerting.NewDispatcher(links, tokens, relay, notifications, vitalsRepo)
	dispatcher.OnLocalNotification("server_log", func(petID, title, body string) {
		nuts.L.Infof("[Server] Local notification for pet %s: %s - %s", petID, title, body)
		s.monitoring.RecordEvent("local_notification", map[string]string{"pet_id": petID, "title": title})
	})

	detector := vitals.NewDetector(dispatcher)
	s.sampler = vitals.NewSampler(links, pets, vitalsRepo, detector,
		s.config.Vitals.PollInterval, s.config.Vitals.Staleness)

	s.hubservice = hubservice.New(hubservice.Deps{
		Schedules:       schedules,
		Links:           links,
		Vitals:          vitalsRepo,
		Notifications:   notifications,
		Pets:            pets,
		Channel:         channel,
		Tracker:         tracker,
		Scheduler:       s.scheduler,
		Detector:        detector,
		Tokens:          tokens,
		VitalsStaleness: s.config.Vitals.Staleness,
	})
	return s.hubservice.Validate()
}

// handleHealth returns a simple health check handler
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupCleanupHandlers() {
	s.hubservice.Cleanup.OnCleanup("pet.deleted", func(id string) {
		nuts.L.Infof("[Cleanup] Pet %s and all associated data deleted", id)
		s.monitoring.RecordEvent("pet_deletion", map[string]string{
			"pet_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("schedule.deleted", func(id string) {
		s.monitoring.RecordEvent("schedule_deletion", map[string]string{
			"pet_id": id,
		})
	})

	s.hubservice.Cleanup.OnCleanup("links.deleted", func(id string) {
		s.monitoring.RecordEvent("device_unlink", map[string]string{
			"pet_id": id,
		})
	})
}
