package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/database"
	"campus-lostfound/internal/event"
	"campus-lostfound/internal/handler"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/repository"
	"campus-lostfound/internal/router"
	"campus-lostfound/internal/service"
	"campus-lostfound/internal/storage"
	"campus-lostfound/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	images, err := storage.NewImageStore(cfg.ImageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	intakeRepo := repository.NewIntakeRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)
	receiptRepo := repository.NewReceiptRepository(pool)
	slog.Info("database ready")

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, userRepo, tokenRepo)
	if err := authService.EnsureDefaultAdmin(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default admin: %w", err)
	}
	authMiddleware := middleware.NewAuthMiddleware(authService)

	bus := event.NewBus()

	auditService := service.NewAuditService(auditRepo)
	intakeService := service.NewIntakeService(intakeRepo, bus)
	itemService := service.NewItemService(itemRepo, intakeRepo, images, bus)
	reportService := service.NewReportService(reportRepo, bus)
	claimService := service.NewClaimService(claimRepo, itemRepo, reportRepo, bus)
	verificationService := service.NewVerificationService(verificationRepo, claimRepo, bus)
	returnService := service.NewReturnService(receiptRepo, claimRepo, itemRepo, bus)

	authHandler := handler.NewAuthHandler(authService, auditService)
	intakeHandler := handler.NewIntakeHandler(intakeService, auditService)
	itemHandler := handler.NewItemHandler(itemService, auditService, cfg.MaxUploadSize)
	reportHandler := handler.NewReportHandler(reportService, auditService)
	claimHandler := handler.NewClaimHandler(claimService, auditService)
	verificationHandler := handler.NewVerificationHandler(verificationService, auditService)
	returnHandler := handler.NewReturnHandler(returnService, auditService)
	auditHandler := handler.NewAuditHandler(auditService)
	imageHandler := handler.NewImageHandler(images)

	hub := websocket.NewHub(bus)

	appRouter := router.New(cfg, authMiddleware,
		authHandler, intakeHandler, itemHandler, reportHandler, claimHandler,
		verificationHandler, returnHandler, auditHandler, imageHandler, hub)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go hub.Run(cleanupCtx)
	go logEvents(cleanupCtx, bus)
	go cleanExpiredTokens(cleanupCtx, tokenRepo)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				cleanupCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

// logEvents drains the workflow event bus into the structured log so every
// state change shows up in container logs.
func logEvents(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			slog.Info("workflow event", "type", e.Type, "actor_id", e.ActorID, "event_id", e.ID)
		}
	}
}

func cleanExpiredTokens(ctx context.Context, tokens *repository.TokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanExpired(ctx)
			if err != nil {
				slog.Warn("refresh token cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired refresh tokens removed", "count", removed)
			}
		}
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
