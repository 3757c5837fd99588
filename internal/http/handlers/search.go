package handlers

import (
	"net/http"

	"github.com/Tusker13-04/interstellar/internal/domain/stowage"
	"github.com/Tusker13-04/interstellar/internal/http/dto"
	"github.com/Tusker13-04/interstellar/internal/service"
	"github.com/gin-gonic/gin"
)

// Search handles GET /api/search?itemId=…|name=…&user_id=…. A miss is
// found=false, not an error.
func (h *Handler) Search(c *gin.Context) {
	rawID := c.Query("itemId")
	name := c.Query("name")
	userID := c.Query("user_id")

	if rawID == "" && name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "either itemId or name must be provided",
		})
		return
	}

	var (
		res service.SearchResult
		err error
	)
	if rawID != "" {
		var id int64
		id, err = stowage.ParseItemID(rawID)
		if err != nil {
			fail(c, err)
			return
		}
		res, err = h.search.ByID(c.Request.Context(), id)
	} else {
		res, err = h.search.ByName(c.Request.Context(), name)
	}
	if err != nil {
		fail(c, err)
		return
	}
	if !res.Found {
		c.JSON(http.StatusOK, dto.SearchResponse{Success: true, Found: false})
		return
	}

	found := &dto.FoundItem{
		ItemID: res.Item.ID,
		Name:   res.Item.Name,
		Zone:   res.Zone,
	}
	if res.Place != nil {
		found.ContainerID = res.Place.ContainerID
		pos := dto.PositionFromBox(res.Place.Box())
		found.Position = &pos
	}

	if userID != "" {
		query := map[string]any{"searchType": "name", "query": name}
		if rawID != "" {
			query = map[string]any{"searchType": "id", "query": rawID}
		}
		h.logs.Record(c.Request.Context(), "search", userID, res.Item.ID, query, nil)
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Success:        true,
		Found:          true,
		Item:           found,
		RetrievalSteps: dto.StepsFromDomain(res.Steps),
	})
}
