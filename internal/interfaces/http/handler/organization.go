package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/easm/dashboard/internal/application/inventory"
	"github.com/easm/dashboard/internal/domain/inventory"
)

// OrganizationHandler serves the organization settings
type OrganizationHandler struct {
	BaseHandler
	orgs *appinventory.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgs *appinventory.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

// UpdateOrganizationRequest is the body of an organization update
type UpdateOrganizationRequest struct {
	Name         *string        `json:"name" binding:"omitempty,min=1,max=200"`
	ScanSettings map[string]any `json:"scanSettings"`
}

// ApexDomainRequest is the body of an apex domain addition
type ApexDomainRequest struct {
	Domain string `json:"domain" binding:"required"`
}

// Get godoc
// @Summary      Get organization
// @Tags         organization
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.Organization}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /organization [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	org, err := h.orgs.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Update godoc
// @Summary      Update organization
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        request body UpdateOrganizationRequest true "Organization changes"
// @Success      200 {object} dto.Response{data=inventory.OrganizationUpdated}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /organization [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.orgs.Update(c.Request.Context(), inventory.OrganizationUpdate{
		Name:         req.Name,
		ScanSettings: req.ScanSettings,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddApexDomain godoc
// @Summary      Add apex domain
// @Tags         organization
// @Accept       json
// @Produce      json
// @Param        request body ApexDomainRequest true "Apex domain"
// @Success      201 {object} dto.Response{data=inventory.ApexDomainChange}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /organization/apex-domains [post]
func (h *OrganizationHandler) AddApexDomain(c *gin.Context) {
	var req ApexDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	resp, err := h.orgs.AddApexDomain(c.Request.Context(), req.Domain)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveApexDomain godoc
// @Summary      Remove apex domain
// @Tags         organization
// @Produce      json
// @Param        domain path string true "Apex domain"
// @Success      200 {object} dto.Response{data=inventory.ApexDomainChange}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /organization/apex-domains/{domain} [delete]
func (h *OrganizationHandler) RemoveApexDomain(c *gin.Context) {
	resp, err := h.orgs.RemoveApexDomain(c.Request.Context(), c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
