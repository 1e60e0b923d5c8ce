package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"arena-api/config"
	"arena-api/database"
	"arena-api/middleware"
	"arena-api/realtime"
	v1 "arena-api/routes/v1"
	"arena-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title Arena API
// @version 1.0
// @description Competitions, submissions and ratings
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	database.InitDB()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitRedis(ctx)
	cache := database.NewCache(database.REDIS)

	hub := realtime.NewHub()
	store := database.NewStore(database.DB)
	scale := services.RatingScale{Min: config.RatingMin, Max: config.RatingMax}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.ClientUrl},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1.Register(r, v1.Dependencies{
		Competitions: services.NewCompetitionService(store),
		Submissions:  services.NewSubmissionService(store, scale, services.WithRatingListener(hub)),
		Users:        services.NewUserService(store),
		Cache:        cache,
		Hub:          hub,
	})
	v1.RegisterSwaggerRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.ApiPort),
		Handler: r,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return middleware.UpdateSystemMetrics(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("API stopped with error: %v", err)
	}
	if database.REDIS != nil {
		_ = database.REDIS.Close()
	}
	log.Println("API stopped")
}
