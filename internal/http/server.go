package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giveaway-bot/internal/common/middleware"
)

const probeTimeout = 2 * time.Second

// Probes report the state of the running bot.
type Probes struct {
	// Ready fails while the bot cannot serve commands.
	Ready func(ctx context.Context) error
	// Pending counts in-flight giveaways and rerolls.
	Pending func(ctx context.Context) (int, error)
}

// NewRouter builds the health, liveness and readiness endpoints.
func NewRouter(service string, debug bool, probes Probes) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   service,
		}
		if probes.Pending != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
			defer cancel()
			if n, err := probes.Pending(ctx); err == nil {
				body["pending_giveaways"] = n
			}
		}
		c.JSON(http.StatusOK, body)
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		if probes.Ready != nil {
			if err := probes.Ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "discord unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   service,
		})
	})

	return router
}

func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
