package handlers

import (
	"errors"
	"net/http"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/geometry"
	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/Tusker13-04/interstellar/internal/planner"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlaceBatch handles POST /api/placement: register any new containers, run
// the batch planner, commit the diff.
func (h *Handler) PlaceBatch(c *gin.Context) {
	var req dto.BatchPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	containers := make([]stowage.Container, 0, len(req.Containers))
	for _, cd := range req.Containers {
		dc, err := cd.ToDomain()
		if err != nil {
			fail(c, err)
			return
		}
		containers = append(containers, dc)
	}
	items := make([]stowage.Item, 0, len(req.Items))
	for _, id := range req.Items {
		di, err := id.ToDomain()
		if err != nil {
			fail(c, err)
			return
		}
		items = append(items, di)
	}

	if len(containers) > 0 {
		if err := h.stowage.RegisterContainers(c.Request.Context(), containers); err != nil {
			fail(c, err)
			return
		}
	}

	res, err := h.stowage.PlanBatch(c.Request.Context(), items)
	if err != nil {
		if errors.Is(err, planner.ErrOverlap) {
			// World corruption: abort loudly, nothing was committed.
			_ = c.Error(err)
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			return
		}
		fail(c, err)
		return
	}
	h.search.Invalidate()

	out := dto.BatchPlacementResponse{
		Success:        true,
		Placements:     make([]dto.Placement, 0, len(res.Placements)),
		Unplaced:       res.Unplaced,
		Rearrangements: res.Rearrangements,
	}
	if out.Unplaced == nil {
		out.Unplaced = []planner.Unplaced{}
	}
	for _, p := range res.Placements {
		out.Placements = append(out.Placements, dto.PlacementFromDomain(p))
	}
	c.JSON(http.StatusOK, out)
}

// Place handles POST /api/place: one item, one container, optional exact
// position.
func (h *Handler) Place(c *gin.Context) {
	var req dto.PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	ts, ok := parseTimestamp(c, req.Timestamp)
	if !ok {
		return
	}

	var box *geometry.Box
	if req.Position != nil {
		b, err := req.Position.Box()
		if err != nil {
			fail(c, err)
			return
		}
		box = &b
	}

	p, err := h.stowage.PlaceItem(c.Request.Context(), req.ItemID.Int64(), req.ContainerID, box, req.UserID, ts)
	if err != nil {
		if errors.Is(err, planner.ErrNoFit) {
			c.JSON(http.StatusOK, dto.PlaceResponse{Success: false, Message: err.Error()})
			return
		}
		fail(c, err)
		return
	}
	h.search.Invalidate()

	h.log.Info("item placed",
		zap.Int64("item", p.ItemID),
		zap.String("container", p.ContainerID))

	wp := dto.PlacementFromDomain(p)
	c.JSON(http.StatusOK, dto.PlaceResponse{Success: true, Placement: &wp})
}

// Rearrange handles POST /api/rearrange for an arrival that failed direct
// placement.
func (h *Handler) Rearrange(c *gin.Context) {
	var req dto.RearrangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	item, err := req.Item.ToDomain()
	if err != nil {
		fail(c, err)
		return
	}

	res, err := h.stowage.PlanRearrangement(c.Request.Context(), item)
	if err != nil {
		fail(c, err)
		return
	}
	h.search.Invalidate()

	out := dto.RearrangeResponse{Success: res.Success, Moves: res.Moves, Cost: res.Cost}
	if res.Final != nil {
		fp := dto.PlacementFromDomain(*res.Final)
		out.Final = &fp
	}
	c.JSON(http.StatusOK, out)
}
