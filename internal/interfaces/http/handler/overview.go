package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/easm/dashboard/internal/application/inventory"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/shared"
)

// OverviewHandler serves the shared stats, the summary cards and the trend chart
type OverviewHandler struct {
	BaseHandler
	stats  *appinventory.StatsAccessor
	trends *appinventory.TrendWidget
}

// NewOverviewHandler creates a new OverviewHandler
func NewOverviewHandler(stats *appinventory.StatsAccessor, trends *appinventory.TrendWidget) *OverviewHandler {
	return &OverviewHandler{stats: stats, trends: trends}
}

// TrendsQuery are the query parameters of the trend chart
type TrendsQuery struct {
	Period string `form:"period"`
	Mode   string `form:"mode"`
}

// Stats godoc
// @Summary      Get inventory stats
// @Tags         overview
// @Produce      json
// @Success      200 {object} dto.Response{data=inventory.InventoryStats}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /overview/stats [get]
func (h *OverviewHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Request(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Refetch godoc
// @Summary      Refetch inventory stats
// @Description  Bypasses the cached stats and loads them again
// @Tags         overview
// @Produce      json
// @Success      200 {object} dto.Response{data=inventory.InventoryStats}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /overview/stats/refetch [post]
func (h *OverviewHandler) Refetch(c *gin.Context) {
	stats, err := h.stats.Refetch(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Cards godoc
// @Summary      Get overview cards
// @Tags         overview
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventory.OverviewCard}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /overview/cards [get]
func (h *OverviewHandler) Cards(c *gin.Context) {
	cards, err := h.stats.Cards(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cards)
}

// Trends godoc
// @Summary      Get asset trends
// @Tags         overview
// @Produce      json
// @Param        period query string false "Trend period" Enums(7d, 30d, 90d)
// @Param        mode query string false "Trend mode" Enums(cumulative, new)
// @Success      200 {object} dto.Response{data=appinventory.TrendView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /trends [get]
func (h *OverviewHandler) Trends(c *gin.Context) {
	var q TrendsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	period, err := inventory.ParseTrendPeriod(q.Period)
	if err != nil {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage(err.Error()))
		return
	}
	mode, err := inventory.ParseViewMode(q.Mode)
	if err != nil {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage(err.Error()))
		return
	}

	view, err := h.trends.Load(c.Request.Context(), period, mode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
