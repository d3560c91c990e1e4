package handlers

import (
	"net/http"

	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests related to budgets and their allocations.
type budgetHandler struct {
	budgetService     portssvc.BudgetSvcFacade
	allocationService portssvc.AllocationSvcFacade
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade, as portssvc.AllocationSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService:     bs,
		allocationService: as,
	}
}

// registerBudgetRoutes registers budget routes, including the nested
// allocation routes.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, allocationService portssvc.AllocationSvcFacade) {
	h := newBudgetHandler(budgetService, allocationService)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:id", h.getBudget)
		budgets.PUT("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deactivateBudget) // Admin only
		budgets.POST("/:id/submit", h.submitBudget)

		budgets.POST("/:id/allocations", h.createAllocation)
		budgets.GET("/:id/allocations", h.listAllocations)
	}

	allocations := rg.Group("/allocations")
	{
		allocations.GET("/:id", h.getAllocation)
		allocations.PUT("/:id", h.updateAllocation)
		allocations.DELETE("/:id", h.deactivateAllocation) // Admin only
	}
}

// createBudget godoc
// @Summary Create a new fiscal-year budget
// @Description Creates a budget for a division. Non-admins may only create budgets in their own division. FiscalYear is in the Buddhist calendar; omitted dates default to the fiscal year period (Oct 1 through Sep 30).
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Budget code already exists"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// getBudget godoc
// @Summary Get a budget by ID
// @Description Retrieves a budget with its remaining amount computed from active allocations.
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Param fiscalYear query int false "Filter by fiscal year (Buddhist calendar)"
// @Param divisionID query string false "Filter by division"
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.budgetService.ListBudgets(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateBudget godoc
// @Summary Update a budget
// @Description Updates a budget. The ceiling cannot shrink below the amount committed to active allocations.
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Budget details to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deactivateBudget godoc
// @Summary Deactivate a budget
// @Description Marks a budget inactive (admin only). Refused while the budget owns expenses; inactive budgets refuse new allocations and expenses.
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deactivateBudget(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.budgetService.DeactivateBudget(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to deactivate budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// submitBudget godoc
// @Summary Submit a budget for approval
// @Description Opens an approval round: one pending approval per eligible approver of the budget's division.
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} ErrorResponse "Division has no eligible approvers"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id}/submit [post]
func (h *budgetHandler) submitBudget(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	resp, err := h.budgetService.SubmitBudgetForApproval(c.Request.Context(), c.Param("id"), requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to submit budget for approval")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// createAllocation godoc
// @Summary Create an allocation under a budget
// @Description Carves an allocation out of the budget's remaining amount. Fails with 422 when the amount exceeds what active allocations leave available.
// @Tags allocations
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param allocation body dto.CreateAllocationRequest true "Allocation details"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /budgets/{id}/allocations [post]
func (h *budgetHandler) createAllocation(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	allocation, err := h.allocationService.CreateAllocation(c.Request.Context(), c.Param("id"), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create allocation")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(allocation))
}

// listAllocations godoc
// @Summary List a budget's allocations
// @Tags allocations
// @Produce json
// @Param id path string true "Budget ID"
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAllocationsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id}/allocations [get]
func (h *budgetHandler) listAllocations(c *gin.Context) {
	var params dto.ListAllocationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.allocationService.ListAllocationsByBudget(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list allocations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getAllocation godoc
// @Summary Get an allocation by ID
// @Tags allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /allocations/{id} [get]
func (h *budgetHandler) getAllocation(c *gin.Context) {
	allocation, err := h.allocationService.GetAllocationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// updateAllocation godoc
// @Summary Update an allocation
// @Description Updates an allocation. Re-activating an inactive allocation re-runs the funds check.
// @Tags allocations
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID"
// @Param allocation body dto.UpdateAllocationRequest true "Allocation details to update"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /allocations/{id} [put]
func (h *budgetHandler) updateAllocation(c *gin.Context) {
	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	allocation, err := h.allocationService.UpdateAllocation(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to update allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(allocation))
}

// deactivateAllocation godoc
// @Summary Deactivate an allocation
// @Description Retires an allocation that owns no expenses (admin only)
// @Tags allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /allocations/{id} [delete]
func (h *budgetHandler) deactivateAllocation(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.allocationService.DeactivateAllocation(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to deactivate allocation")
		return
	}
	c.Status(http.StatusNoContent)
}
