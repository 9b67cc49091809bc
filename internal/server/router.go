// Package server assembles the HTTP surface and the catalog lifecycle
// shared by the binaries.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"fontpair/internal/fonts"
	"fontpair/internal/foundries"
	"fontpair/internal/logging"
	"fontpair/internal/pairing"
	"fontpair/internal/pairings"
	"fontpair/internal/ratelimit"
	"fontpair/internal/search"
	synchub "fontpair/internal/sync"
	"fontpair/pkg/models"
	"fontpair/pkg/utils"
)

type Deps struct {
	DB       *sql.DB
	Catalog  *Catalog
	Selector *pairing.Selector
	Popular  []models.PopularPairing
	Limiter  *ratelimit.Keyed
	Logger   *log.Logger

	// Ingester is nil when admin routes are disabled.
	Ingester *Ingester
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	router := gin.New()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(gin.Recovery(), logging.Middleware(logger), CORS())
	if d.Limiter != nil {
		router.Use(ratelimit.Middleware(d.Limiter))
	}

	hub := d.Catalog.Hub
	router.GET("/ws", synchub.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := d.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"code":        utils.CodeUnavailable,
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		fontsN, foundriesN := d.Catalog.Index.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":            "ready",
			"db":                "ok",
			"indexed_fonts":     fontsN,
			"indexed_foundries": foundriesN,
			"tcp_clients":       stats.TCPClients,
			"ws_clients":        stats.WSClients,
		})
	})

	fonts.NewHandler(d.Catalog.Fonts).RegisterRoutes(router.Group("/fonts"))
	foundries.NewHandler(d.Catalog.Foundries, d.Catalog.Fonts).RegisterRoutes(router.Group("/foundries"))
	search.NewHandler(d.Catalog.Index).RegisterRoutes(router.Group("/search"))
	pairings.NewHandler(d.Catalog.Fonts, d.Selector, d.Popular).RegisterRoutes(router.Group("/pairings"))

	admin := router.Group("/admin")
	if d.Ingester != nil {
		d.Ingester.RegisterRoutes(admin)
	} else {
		admin.Any("/*path", func(c *gin.Context) {
			utils.AbortError(c, http.StatusForbidden, utils.CodeIngestDisabled, "admin routes are disabled")
		})
	}

	return router
}
