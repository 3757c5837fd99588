package handlers

import (
	"net/http"

	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Retrieve handles POST /api/retrieve: books one use of an item and routes
// it to waste when exhausted.
func (h *Handler) Retrieve(c *gin.Context) {
	var req dto.RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, dto.RetrieveResponse{Success: false, Message: err.Error()})
		return
	}
	ts, ok := parseTimestamp(c, req.Timestamp)
	if !ok {
		return
	}

	if err := h.stowage.Retrieve(c.Request.Context(), req.ItemID.Int64(), req.UserID, ts); err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("item retrieved",
		zap.Int64("item", req.ItemID.Int64()),
		zap.String("user", req.UserID))
	c.JSON(http.StatusOK, dto.RetrieveResponse{Success: true})
}
