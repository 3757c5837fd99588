// Package handlers implements the HTTP surface over the stowage services.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler carries the services the routes dispatch to.
type Handler struct {
	log     *zap.Logger
	stowage *service.StowageService
	search  *service.SearchService
	logs    *service.LogService
}

// New builds the handler set.
func New(log *zap.Logger, st *service.StowageService, se *service.SearchService, lo *service.LogService) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		log:     log.Named("http"),
		stowage: st,
		search:  se,
		logs:    lo,
	}
}

// parseTimestamp maps an optional request timestamp; nil when absent.
func parseTimestamp(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	ts, err := service.ParseTimestamp(raw)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return nil, false
	}
	return &ts, true
}

// fail writes the domain-miss reply: the legacy surface reports planner
// misses as success=false with HTTP 200, real input faults as 4xx.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, stowage.ErrInvalidInput), errors.Is(err, stowage.ErrBadItemID):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoUsesLeft):
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
	}
}
