package handlers

import (
	"net/http"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// approvalHandler handles HTTP requests related to the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: as}
}

// registerApprovalRoutes registers the approval routes, including the
// per-subject round listings nested under budgets and expenses.
func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("/me", h.listMyApprovals)
		approvals.GET("/:id", h.getApproval)
		approvals.POST("/:id/decide", h.decideApproval)
	}

	rg.GET("/budgets/:id/approvals", h.listBudgetApprovals)
	rg.GET("/expenses/:id/approvals", h.listExpenseApprovals)
}

// listMyApprovals godoc
// @Summary List the caller's approvals
// @Description Lists approvals assigned to the authenticated user, newest first.
// @Tags approvals
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListApprovalsResponse
// @Security BearerAuth
// @Router /approvals/me [get]
func (h *approvalHandler) listMyApprovals(c *gin.Context) {
	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	approverID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.approvalService.ListMyApprovals(c.Request.Context(), approverID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list approvals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getApproval godoc
// @Summary Get an approval by ID
// @Tags approvals
// @Produce json
// @Param id path string true "Approval ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /approvals/{id} [get]
func (h *approvalHandler) getApproval(c *gin.Context) {
	approval, err := h.approvalService.GetApprovalByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve approval")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// decideApproval godoc
// @Summary Decide a pending approval
// @Description Records APPROVE or REJECT on the caller's pending approval. A rejection requires comments and closes the whole round; the final approval resolves the subject.
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Approval ID"
// @Param decision body dto.DecideApprovalRequest true "Decision"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 400 {object} ErrorResponse "Rejection without comments"
// @Failure 403 {object} ErrorResponse "Not the assigned approver"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Approval already decided"
// @Security BearerAuth
// @Router /approvals/{id}/decide [post]
func (h *approvalHandler) decideApproval(c *gin.Context) {
	var req dto.DecideApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	approval, err := h.approvalService.DecideApproval(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to record decision")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponse(approval))
}

// listBudgetApprovals godoc
// @Summary List a budget's approval round
// @Tags approvals
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {array} dto.ApprovalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id}/approvals [get]
func (h *approvalHandler) listBudgetApprovals(c *gin.Context) {
	h.listSubjectApprovals(c, domain.BudgetSubject(c.Param("id")))
}

// listExpenseApprovals godoc
// @Summary List an expense's approval round
// @Tags approvals
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {array} dto.ApprovalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id}/approvals [get]
func (h *approvalHandler) listExpenseApprovals(c *gin.Context) {
	h.listSubjectApprovals(c, domain.ExpenseSubject(c.Param("id")))
}

func (h *approvalHandler) listSubjectApprovals(c *gin.Context, subject domain.ApprovalSubject) {
	approvals, err := h.approvalService.ListApprovalsForSubject(c.Request.Context(), subject)
	if err != nil {
		respondServiceError(c, err, "Failed to list approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalResponses(approvals))
}
