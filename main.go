package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"restaurant-ordering-api/config"
	"restaurant-ordering-api/events"
	"restaurant-ordering-api/handlers"
	"restaurant-ordering-api/logger"
	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/repository"
	"restaurant-ordering-api/routes"
	"restaurant-ordering-api/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", getenv("CONFIG_PATH", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// run owns every resource so deferred closes happen before main exits.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Logging); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer config.CloseDB(db)
	if err := config.Seed(db); err != nil {
		return fmt.Errorf("seed database: %w", err)
	}

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	rules, err := cfg.Pricing.Rules()
	if err != nil {
		return fmt.Errorf("pricing rules: %w", err)
	}

	repo := repository.New(db)
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := &handlers.Handler{
		Catalog:       service.NewCatalogService(repo),
		Coupons:       service.NewCouponService(repo),
		Orders:        service.NewOrderService(repo, rules, publisher),
		Feedback:      service.NewFeedbackService(repo),
		Notifications: service.NewNotificationService(repo, publisher),
		Identity:      service.NewIdentityService(repo, service.NewMockOTPProvider(cfg.Auth.OTPTTL)),
		Auth:          auth,
		Config:        cfg,
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.CORS())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the " + cfg.Restaurant.Name + " ordering API",
			"docs":    "/api/state-machine",
			"health":  "/health",
		})
	})
	routes.SetupRoutes(r, h, auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serve(srv, quit)
}

// serve runs srv until it fails or a signal arrives on quit, then shuts it
// down gracefully.
func serve(srv *http.Server, quit <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
