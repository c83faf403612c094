package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tab_server/internal/config"
	"tab_server/internal/db"
	httpServer "tab_server/internal/http"
	"tab_server/internal/http/middleware"
	"tab_server/internal/logger"
	"tab_server/internal/service"
	"tab_server/internal/store"
	"tab_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	var (
		st     store.Store
		dbPool *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		dbPool = db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()

		pg := store.NewPostgres(dbPool)
		if err := pg.Migrate(context.Background()); err != nil {
			logger.Fatal("migrate failed", "error", err)
		}
		st = pg
	} else {
		logger.Warn("DATABASE_URL not set, state is kept in memory only")
		st = store.NewMemory()
	}

	games := service.NewGameService(st,
		time.Duration(cfg.WaitTimeout)*time.Second,
		time.Duration(cfg.TurnTimeout)*time.Second)
	if err := games.Open(context.Background()); err != nil {
		logger.Fatal("failed to restore state", "error", err)
	}

	hub := ws.NewHub()
	games.SetUpdateHook(hub.Publish)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, games, hub, dbPool, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Println("server started on port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown:", err)
	}

	// flush pending writes and stop game timers
	games.Close()
	st.Close()

	log.Println("server exited")
}
