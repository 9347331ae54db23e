package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmarins/bingo-live/config"
	"github.com/dmarins/bingo-live/controllers"
	"github.com/dmarins/bingo-live/routes"
	"github.com/dmarins/bingo-live/services"
	"github.com/dmarins/bingo-live/utils/logger"

	"github.com/coder/quartz"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func setupRouter(cfg *config.Config, api *controllers.API, hub *services.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, api)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/ws", hub.HandleWebSocket)

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Infof("no .env file found, reading environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}

	svc := services.NewRoundService(db, logger.Log)
	hub := services.NewHub(svc, logger.Log)
	api := &controllers.API{Svc: svc, AdminToken: cfg.AdminToken}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.EnsureRound(ctx); err != nil {
		logger.Fatalf("round bootstrap: %v", err)
	}

	hostID := uuid.NewString()
	driver := services.NewDriver(svc, quartz.NewReal(), hostID, logger.Log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, api, hub),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("bingo backend listening on port %s (host %s)", cfg.Port, hostID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return driver.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server exited: %v", err)
	}
}
