package http

import (
	"time"

	"tab_server/internal/config"
	"tab_server/internal/http/handlers"
	"tab_server/internal/http/middleware"
	"tab_server/internal/service"
	"tab_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, games *service.GameService, hub *ws.Hub, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(games, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRL := pickLimiter(cfg, cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second)
	authRL := pickLimiter(cfg, cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindow)*time.Second)
	moveRL := middleware.MoveRateLimit(cfg.MoveRateLimit, time.Duration(cfg.MoveRateWindow)*time.Second)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(apiRL)

	// Accounts
	v1.POST("/register", authRL, h.Register)
	v1.POST("/login", authRL, h.Login)
	v1.GET("/me", middleware.JWT(), h.Me)

	// Matchmaking
	v1.POST("/join", h.Join)
	v1.POST("/leave", h.Leave)

	// Turn actions
	v1.POST("/roll", moveRL, h.Roll)
	v1.POST("/pass", moveRL, h.Pass)
	v1.POST("/notify", moveRL, h.Notify)

	// Read side
	v1.POST("/state", h.State)
	v1.GET("/ranking", h.Ranking)

	// Live game updates
	r.GET("/ws", h.WS())
}

// pickLimiter prefers the Redis limiter and falls back to the
// in-process one when Redis is not configured.
func pickLimiter(cfg *config.Config, limit int, window time.Duration) gin.HandlerFunc {
	if cfg.RedisAddr != "" {
		return middleware.RedisRateLimit(limit, window)
	}
	return middleware.SimpleRateLimit(limit, window)
}
