package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"cellar_thermostat/internal/logger"
	"cellar_thermostat/internal/service"
)

// Handler wires the HTTP layer to the thermostat services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	assetsDir string
	restart   func()
	session   string
	started   time.Time
}

// NewHandler constructs the HTTP handler. restart is invoked by /reboot
// after the response is on its way; nil disables rebooting.
func NewHandler(services *service.Service, assetsDir, session string, restart func(), log *logger.Logger) *Handler {
	return &Handler{
		services:  services,
		log:       log,
		assetsDir: assetsDir,
		restart:   restart,
		session:   session,
		started:   time.Now(),
	}
}

// InitRoutes builds the Gin router with all routes registered. The
// operator surface is GET-only: the browser client drives everything
// through query strings.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// The operator page and its dynamic endpoints.
	router.GET("/", h.index)
	router.GET("/temp", h.temp)
	router.GET("/savethresholds", h.saveThresholds)
	router.GET("/reset", h.reset)
	router.GET("/reboot", h.reboot)

	router.GET("/health", h.health)

	// Live temperature stream (HTTP upgrade) on the same port.
	router.GET("/ws", h.wsConnect)

	h.registerAssetRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	return router
}

// registerAssetRoutes serves the web UI files verbatim from the assets
// directory. A missing file is a 404.
func (h *Handler) registerAssetRoutes(r *gin.Engine) {
	for _, name := range []string{"index.js", "index.css", "D7MR.woff2", "favicon.ico"} {
		r.StaticFile("/"+name, filepath.Join(h.assetsDir, name))
	}
}
