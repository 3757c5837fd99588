package handlers

import (
	"net/http"
	"time"

	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdentifyWaste handles POST /api/waste/identify: classifies expired and
// exhausted items against the current clock and routes them to the
// manifest.
func (h *Handler) IdentifyWaste(c *gin.Context) {
	entries, err := h.stowage.IdentifyWaste(c.Request.Context(), time.Now().UTC())
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("waste identified", zap.Int("count", len(entries)))
	c.JSON(http.StatusOK, dto.WasteResponse{
		Success:    true,
		WasteItems: dto.WasteFromDomain(entries),
	})
}
