// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/config"
	"bookdesk-service/internal/db"
	authHandler "bookdesk-service/internal/handlers/auth"
	cartHandler "bookdesk-service/internal/handlers/cart"
	confirmHandler "bookdesk-service/internal/handlers/confirm"
	deviceHandler "bookdesk-service/internal/handlers/device"
	notifyH "bookdesk-service/internal/handlers/notification"
	scheduleHandler "bookdesk-service/internal/handlers/schedule"
	wsHandler "bookdesk-service/internal/handlers/websocket"
	"bookdesk-service/internal/middleware"
	xerrors "bookdesk-service/internal/pkg/errors"
	"bookdesk-service/internal/pkg/session"
	"bookdesk-service/internal/pkg/storage"
	authUsecase "bookdesk-service/internal/service/auth"
	cartUsecase "bookdesk-service/internal/service/cart"
	confirmUsecase "bookdesk-service/internal/service/confirm"
	deviceUsecase "bookdesk-service/internal/service/device"
	notifyUsecase "bookdesk-service/internal/service/notification"
	scheduleUsecase "bookdesk-service/internal/service/schedule"
	"bookdesk-service/internal/websocket"
	wsHandlers "bookdesk-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.AppConfig
	engine  *gin.Engine
	logger  *zap.Logger
	mu      sync.Mutex
	http    *http.Server
	cancel  context.CancelFunc
	closers []func()
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires every component and serves HTTP until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	// ----- Durable storage -----
	store, err := s.openStorage(ctx)
	if err != nil {
		return err
	}

	// ----- Session -----
	sessionManager, err := session.NewManager(ctx, store, s.logger)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	// ----- Backend client -----
	api := apiclient.New(apiclient.Config{
		BaseURL:   s.cfg.BackendURL,
		Timeout:   s.cfg.BackendTimeout,
		RateLimit: s.cfg.BackendRateLimit,
		Burst:     s.cfg.BackendBurst,
	}, sessionManager, s.logger)

	// ----- Services (Usecases) -----
	registry := notifyUsecase.NewRegistry(s.logger,
		notifyUsecase.WithDefaultDuration(s.cfg.NotifyDuration),
		notifyUsecase.WithCooldown(s.cfg.NotifyCooldown),
	)
	broker := confirmUsecase.NewBroker(s.logger, overlapPolicy(s.cfg.ConfirmOverlap))
	authService := authUsecase.NewAuthService(api, sessionManager, s.logger)
	deviceService := deviceUsecase.NewDeviceService(api, s.logger)
	cartStore := cartUsecase.NewStore(
		cartUsecase.NewCartService(api, s.logger),
		deviceService,
		s.cfg.CartFetchConcurrency,
		s.logger,
	)
	signal := scheduleUsecase.NewSignal(s.logger)
	appointmentService := scheduleUsecase.NewAppointmentService(api, signal, s.logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(s.logger)
	wsHandlers.Bind(ctx, hub, wsHandlers.Sources{
		Notifications: registry,
		Confirm:       broker,
		Session:       sessionManager,
		Cart:          cartStore,
		Schedule:      signal,
	}, s.logger)
	go hub.Run(ctx)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:     authHandler.NewAuthHandler(authService, cartStore, registry, s.logger),
		NotifHandler:    notifyH.NewNotificationHandler(registry),
		ConfirmHandler:  confirmHandler.NewConfirmHandler(broker, s.logger),
		CartHandler:     cartHandler.NewCartHandler(cartStore, registry),
		DeviceHandler:   deviceHandler.NewDeviceHandler(deviceService),
		ScheduleHandler: scheduleHandler.NewScheduleHandler(appointmentService, signal, registry),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, s.cfg.AllowedOrigins, s.logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(sessionManager),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.LoggingMiddleware(s.logger),
		middleware.RecoveryMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
	)
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()
	s.logger.Info("server running",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("backend", s.cfg.BackendURL),
		zap.String("storage", s.cfg.StorageDriver),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP, stops the hub and closes storage connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	return err
}

func (s *Server) openStorage(ctx context.Context) (storage.Storage, error) {
	switch s.cfg.StorageDriver {
	case config.StorageRedis:
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addresses: []string{s.cfg.RedisAddr},
			Password:  s.cfg.RedisPass,
			DB:        s.cfg.RedisDB,
			PoolSize:  10,
		})
		if err != nil {
			return nil, err
		}
		s.addCloser(func() { _ = client.Close() })
		s.logger.Info("redis storage connected", zap.String("addr", s.cfg.RedisAddr))
		return storage.NewRedisStore(client, ""), nil

	case config.StoragePostgres:
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.addCloser(pool.Close)
		store, err := storage.NewPostgresStore(ctx, pool)
		if err != nil {
			return nil, err
		}
		s.logger.Info("postgres storage connected")
		return store, nil

	case config.StorageMemory, "":
		s.logger.Warn("using in-memory storage, the session will not survive a restart")
		return storage.NewMemory(), nil

	default:
		return nil, fmt.Errorf("%w: unknown STORAGE_DRIVER %q", xerrors.ErrStorageDisabled, s.cfg.StorageDriver)
	}
}

func (s *Server) addCloser(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, fn)
}

func overlapPolicy(name string) confirmUsecase.OverlapPolicy {
	if name == "replace" {
		return confirmUsecase.OverlapReplace
	}
	return confirmUsecase.OverlapReject
}
