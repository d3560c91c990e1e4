package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for budget reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/budget-utilization", h.budgetUtilization)
		reports.GET("/division-spending", h.divisionSpending)
	}
}

// fiscalYearParam parses the mandatory fiscalYear query parameter.
func fiscalYearParam(c *gin.Context) (int, bool) {
	raw := c.Query("fiscalYear")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fiscalYear query parameter is required"})
		return 0, false
	}
	fiscalYear, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fiscalYear must be an integer"})
		return 0, false
	}
	return fiscalYear, true
}

// budgetUtilization godoc
// @Summary Budget utilization report
// @Description Reports allocated, consumed and remaining amounts per budget for a fiscal year (Buddhist calendar), optionally restricted to a division.
// @Tags reports
// @Produce json
// @Param fiscalYear query int true "Fiscal year (Buddhist calendar)"
// @Param divisionID query string false "Restrict to a division"
// @Success 200 {object} dto.BudgetUtilizationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/budget-utilization [get]
func (h *reportingHandler) budgetUtilization(c *gin.Context) {
	fiscalYear, ok := fiscalYearParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var divisionID *string
	if v := c.Query("divisionID"); v != "" {
		divisionID = &v
	}

	resp, err := h.reportingService.BudgetUtilization(c.Request.Context(), fiscalYear, divisionID, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// divisionSpending godoc
// @Summary Division spending report
// @Description Reports each division's total budget, total spend and expense count for a fiscal year.
// @Tags reports
// @Produce json
// @Param fiscalYear query int true "Fiscal year (Buddhist calendar)"
// @Success 200 {object} dto.DivisionSpendingResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/division-spending [get]
func (h *reportingHandler) divisionSpending(c *gin.Context) {
	fiscalYear, ok := fiscalYearParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.reportingService.DivisionSpending(c.Request.Context(), fiscalYear, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, resp)
}
