package handlers

import (
	"io"
	"net/http"

	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// csvBody returns the upload reader: the "file" form part when the request
// is multipart, the raw body otherwise.
func csvBody(c *gin.Context) (io.ReadCloser, error) {
	if f, err := c.FormFile("file"); err == nil {
		return f.Open()
	}
	return c.Request.Body, nil
}

// ImportItems handles POST /api/import/items.
func (h *Handler) ImportItems(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	defer body.Close()

	count, err := h.stowage.ImportItems(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("items imported", zap.Int("count", count))
	c.JSON(http.StatusOK, dto.ImportResponse{Success: true, Count: count})
}

// ImportContainers handles POST /api/import/containers.
func (h *Handler) ImportContainers(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	defer body.Close()

	count, err := h.stowage.ImportContainers(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("containers imported", zap.Int("count", count))
	c.JSON(http.StatusOK, dto.ImportResponse{Success: true, Count: count})
}

// ImportArrangement handles POST /api/import/arrangement, replacing the
// active placements with the uploaded file.
func (h *Handler) ImportArrangement(c *gin.Context) {
	body, err := csvBody(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	defer body.Close()

	count, err := h.stowage.ImportArrangement(c.Request.Context(), body)
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("arrangement imported", zap.Int("count", count))
	c.JSON(http.StatusOK, dto.ImportResponse{Success: true, Count: count})
}

// ExportWaste handles GET /api/export/waste, streaming the manifest.
func (h *Handler) ExportWaste(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="waste_items.csv"`)
	if err := h.stowage.ExportWaste(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
}

// ExportArrangement handles GET /api/export/arrangement, streaming the
// current placements as CSV.
func (h *Handler) ExportArrangement(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="cargo_arrangement.csv"`)
	if err := h.stowage.ExportArrangement(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
}
