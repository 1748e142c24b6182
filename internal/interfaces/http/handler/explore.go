package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/easm/dashboard/internal/application/inventory"
)

// ExploreHandler serves search and the relationship graph
type ExploreHandler struct {
	BaseHandler
	search  *appinventory.SearchService
	network *appinventory.NetworkService
}

// NewExploreHandler creates a new ExploreHandler
func NewExploreHandler(search *appinventory.SearchService, network *appinventory.NetworkService) *ExploreHandler {
	return &ExploreHandler{search: search, network: network}
}

// Search godoc
// @Summary      Search assets
// @Tags         explore
// @Produce      json
// @Param        query query string false "Search term"
// @Success      200 {object} dto.Response{data=inventory.SearchResults}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /search [get]
func (h *ExploreHandler) Search(c *gin.Context) {
	results, err := h.search.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Network godoc
// @Summary      Get network graph
// @Description  Returns the asset relationship graph, optionally centered on one asset
// @Tags         explore
// @Produce      json
// @Param        assetId path string false "Center asset ID"
// @Success      200 {object} dto.Response{data=inventory.NetworkGraph}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /network [get]
// @Router       /network/{assetId} [get]
func (h *ExploreHandler) Network(c *gin.Context) {
	graph, err := h.network.Graph(c.Request.Context(), c.Param("assetId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, graph)
}
