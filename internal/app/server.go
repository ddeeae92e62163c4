// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"prospecta-service/internal/config"
	"prospecta-service/internal/db"
	allocHandler "prospecta-service/internal/handlers/allocation"
	authHandler "prospecta-service/internal/handlers/auth"
	repHandler "prospecta-service/internal/handlers/representative"
	searchHandler "prospecta-service/internal/handlers/search"
	wsHandler "prospecta-service/internal/handlers/websocket"
	"prospecta-service/internal/middleware"
	"prospecta-service/internal/pkg/jwt"
	"prospecta-service/internal/pkg/session"
	"prospecta-service/internal/repository/postgres"
	allocUsecase "prospecta-service/internal/service/allocation"
	authUsecase "prospecta-service/internal/service/auth"
	repUsecase "prospecta-service/internal/service/representative"
	searchUsecase "prospecta-service/internal/service/search"
	"prospecta-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	logger      *zap.Logger
	authService *authUsecase.AuthService
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	distributionRepo := postgres.NewDistributionRepository(pool)
	representativeRepo := postgres.NewRepresentativeRepository(pool)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(authRepo, jwtManager, sessionManager, rateLimiter, logger)
	s.authService = authService

	searchService := searchUsecase.NewSearchService(companyRepo, logger)
	allocService := allocUsecase.NewAllocationService(
		companyRepo,
		distributionRepo,
		representativeRepo,
		dbWrapper,
		hub,
		logger,
	)
	repService := repUsecase.NewRepresentativeService(representativeRepo, logger)

	// ----- Bootstrap Admin -----
	if err := s.initializeAdmin(); err != nil {
		logger.Error("failed to initialize admin account", zap.Error(err))
	}

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	searchHandlerInst := searchHandler.NewSearchHandler(searchService, s.cfg.CountTimeout, logger)
	allocHandlerInst := allocHandler.NewAllocationHandler(allocService, logger)
	repHandlerInst := repHandler.NewRepresentativeHandler(repService, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, authService, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:           authHandlerInst,
		SearchHandler:         searchHandlerInst,
		AllocationHandler:     allocHandlerInst,
		RepresentativeHandler: repHandlerInst,
		WSHandler:             wsHandlerInst,
		AuthMiddleware:        authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}

// initializeAdmin creates the bootstrap admin account if configured.
func (s *Server) initializeAdmin() error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	if len(s.cfg.AdminPassword) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.authService.EnsureAdminExists(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword, s.cfg.AdminName); err != nil {
		return fmt.Errorf("failed to ensure admin exists: %w", err)
	}

	return nil
}
