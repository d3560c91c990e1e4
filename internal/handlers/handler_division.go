package handlers

import (
	"net/http"

	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// divisionHandler handles HTTP requests related to divisions.
type divisionHandler struct {
	divisionService portssvc.DivisionSvcFacade
}

func newDivisionHandler(ds portssvc.DivisionSvcFacade) *divisionHandler {
	return &divisionHandler{divisionService: ds}
}

// registerDivisionRoutes registers all division-related routes.
func registerDivisionRoutes(rg *gin.RouterGroup, divisionService portssvc.DivisionSvcFacade) {
	h := newDivisionHandler(divisionService)

	divisions := rg.Group("/divisions")
	{
		divisions.POST("", h.createDivision) // Admin only
		divisions.GET("", h.listDivisions)
		divisions.GET("/:id", h.getDivision)
		divisions.PUT("/:id", h.updateDivision)    // Admin only
		divisions.DELETE("/:id", h.deleteDivision) // Admin only
	}
}

// createDivision godoc
// @Summary Create a new division
// @Description Creates a new organizational division (admin only)
// @Tags divisions
// @Accept json
// @Produce json
// @Param division body dto.CreateDivisionRequest true "Division details"
// @Success 201 {object} dto.DivisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /divisions [post]
func (h *divisionHandler) createDivision(c *gin.Context) {
	var req dto.CreateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	division, err := h.divisionService.CreateDivision(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create division")
		return
	}
	c.JSON(http.StatusCreated, dto.ToDivisionResponse(division))
}

// getDivision godoc
// @Summary Get a division by ID
// @Tags divisions
// @Produce json
// @Param id path string true "Division ID"
// @Success 200 {object} dto.DivisionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /divisions/{id} [get]
func (h *divisionHandler) getDivision(c *gin.Context) {
	division, err := h.divisionService.GetDivisionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// listDivisions godoc
// @Summary List divisions
// @Tags divisions
// @Produce json
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDivisionsResponse
// @Security BearerAuth
// @Router /divisions [get]
func (h *divisionHandler) listDivisions(c *gin.Context) {
	var params dto.ListDivisionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.divisionService.ListDivisions(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list divisions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateDivision godoc
// @Summary Update a division
// @Description Updates a division's details (admin only)
// @Tags divisions
// @Accept json
// @Produce json
// @Param id path string true "Division ID"
// @Param division body dto.UpdateDivisionRequest true "Division details to update"
// @Success 200 {object} dto.DivisionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /divisions/{id} [put]
func (h *divisionHandler) updateDivision(c *gin.Context) {
	var req dto.UpdateDivisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	division, err := h.divisionService.UpdateDivision(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to update division")
		return
	}
	c.JSON(http.StatusOK, dto.ToDivisionResponse(division))
}

// deleteDivision godoc
// @Summary Delete a division
// @Description Deletes a division that owns no users, budgets or expenses (admin only)
// @Tags divisions
// @Produce json
// @Param id path string true "Division ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /divisions/{id} [delete]
func (h *divisionHandler) deleteDivision(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.divisionService.DeleteDivision(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to delete division")
		return
	}
	c.Status(http.StatusNoContent)
}
