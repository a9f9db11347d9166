package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"filmcatalog/internal/comments"
	"filmcatalog/internal/films"
	"filmcatalog/internal/metrics"
	synchub "filmcatalog/internal/sync"
)

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.Log), metrics.Middleware())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": a.Cfg.DBDriver})
	})
	router.GET("/ready", a.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", synchub.WSHandler(a.Hub))

	api := router.Group("/api")

	filmRepo := films.NewRepo(a.Store, a.Cfg.PageSize, a.Cache)
	filmHandler := films.NewHandler(filmRepo, a.Hub, a.Log)
	filmHandler.RegisterRoutes(api)
	filmHandler.RegisterFormRoutes(router)

	commentHandler := comments.NewHandler(comments.NewRepo(a.Store), a.Log)
	commentHandler.RegisterRoutes(api)

	a.mountPublic(router)
	return router
}

func (a *App) ready(c *gin.Context) {
	stats := a.Hub.Stats()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.Store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"db_error":   err.Error(),
			"ws_clients": stats.WSClients,
		})
		return
	}
	if !a.Health.Serving() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "seeding",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"db":         "ok",
		"ws_clients": stats.WSClients,
	})
}

// mountPublic serves the public directory for any path no route claims, so
// "/" gives index.html and "/images/..." gives assets.
func (a *App) mountPublic(router *gin.Engine) {
	dir := a.Cfg.PublicDir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		a.Log.Warn("public directory unavailable, static files disabled", zap.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	files := http.FileServer(http.Dir(dir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	l := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
