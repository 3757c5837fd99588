package handlers

import (
	"net/http"
	"time"

	"github.com/Tusker13-04/interstellar/internal/config"
	"github.com/Tusker13-04/interstellar/internal/http/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter assembles the gin engine: recovery first, then request ids and
// access logging, then the API routes. Mutating planner routes sit behind a
// single-slot concurrency cap.
func NewRouter(log *zap.Logger, cfg *config.Config, h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())
	r.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		FrameDeny:          true,
	}))

	if cfg.Env == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.Use(bodyCap(cfg.HTTP.MaxBodyBytes))

	// Planner mutations: one at a time per world.
	planning := api.Group("")
	planning.Use(middleware.CapConcurrentRequests(1))
	planning.POST("/placement", h.PlaceBatch)
	planning.POST("/place", h.Place)
	planning.POST("/retrieve", h.Retrieve)
	planning.POST("/rearrange", h.Rearrange)
	planning.POST("/waste/identify", h.IdentifyWaste)
	planning.POST("/import/items", h.ImportItems)
	planning.POST("/import/containers", h.ImportContainers)
	planning.POST("/import/arrangement", h.ImportArrangement)
	planning.POST("/clear", h.Clear)

	api.GET("/search", h.Search)
	api.GET("/logs", h.GetLogs)
	api.POST("/logs", h.AppendLog)
	api.GET("/export/arrangement", h.ExportArrangement)
	api.GET("/export/waste", h.ExportWaste)

	return r
}

func bodyCap(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}
		c.Next()
	}
}
