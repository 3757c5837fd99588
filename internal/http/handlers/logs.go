package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/Tusker13-04/interstellar/internal/service"
	"github.com/Tusker13-04/interstellar/pkg/jsonx"
	"github.com/gin-gonic/gin"
)

// GetLogs handles GET /api/logs with optional date/item/user/action
// filters.
func (h *Handler) GetLogs(c *gin.Context) {
	var filter service.LogFilter

	if raw := c.Query("startDate"); raw != "" {
		ts, err := service.ParseTimestamp(raw)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid start date: " + err.Error()})
			return
		}
		filter.Start = &ts
	}
	if raw := c.Query("endDate"); raw != "" {
		ts, err := service.ParseTimestamp(raw)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid end date: " + err.Error()})
			return
		}
		filter.End = &ts
	}
	if raw := c.Query("itemId"); raw != "" {
		id, err := stowage.ParseItemID(raw)
		if err != nil {
			fail(c, err)
			return
		}
		filter.ItemID = &id
	}
	filter.UserID = c.Query("user_id")
	filter.ActionType = c.Query("action_type")

	entries, err := h.logs.Query(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	out := dto.LogsResponse{Logs: make([]dto.LogRow, 0, len(entries))}
	for _, e := range entries {
		var details map[string]any
		if err := json.Unmarshal([]byte(e.Details), &details); err != nil {
			details = map[string]any{"message": e.Details}
		}
		out.Logs = append(out.Logs, dto.LogRow{
			Timestamp:  e.Timestamp,
			UserID:     e.UserID,
			ActionType: e.ActionType,
			ItemID:     e.ItemID,
			Details:    details,
		})
	}
	c.JSON(http.StatusOK, out)
}

// AppendLog handles POST /api/logs. The body is decoded strictly: unknown
// fields and trailing data are rejected.
func (h *Handler) AppendLog(c *gin.Context) {
	var req dto.LogAppendRequest
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.ActionType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "actionType is required"})
		return
	}

	var stamp time.Time
	if req.Timestamp != "" {
		ts, err := service.ParseTimestamp(req.Timestamp)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		stamp = ts
	}

	details := "{}"
	if req.Details != nil {
		raw, err := json.Marshal(req.Details)
		if err == nil {
			details = string(raw)
		}
	}

	entry := stowage.LogEntry{
		Timestamp:  stamp,
		UserID:     req.UserID,
		ActionType: req.ActionType,
		ItemID:     req.ItemID.Int64(),
		Details:    details,
	}
	if err := h.logs.Append(c.Request.Context(), entry); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "log entry added"})
}

// Clear handles POST /api/clear: drops imported state and truncates the
// log.
func (h *Handler) Clear(c *gin.Context) {
	if err := h.stowage.Clear(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logs and imported files cleared"})
}
