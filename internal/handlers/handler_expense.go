package handlers

import (
	"net/http"

	portssvc "github.com/budgetgov/budget_management_app/internal/core/ports/services"
	"github.com/budgetgov/budget_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers all expense-related routes.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
		expenses.POST("/:id/submit", h.submitExpense)
		expenses.POST("/:id/cancel", h.cancelExpense)
		expenses.POST("/:id/pay", h.payExpense) // Admin only

		expenses.GET("/:id/documents", h.listDocuments)
		expenses.POST("/:id/documents", h.addDocument)
		expenses.DELETE("/:id/documents/:docID", h.removeDocument)
	}
}

// createExpense godoc
// @Summary Record a new expense
// @Description Records a spend request in DRAFT. Fails with 422 when the amount exceeds what the budget, or the allocation when one is given, has available.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Expense code already exists"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to create expense")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Param budgetID query string false "Filter by budget"
// @Param divisionID query string false "Filter by division"
// @Param status query string false "Filter by status"
// @Param limit query int false "Limit number of results" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListExpensesResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateExpense godoc
// @Summary Update an expense
// @Description Only the requester or an admin may edit; APPROVED and PAID expenses are frozen for non-admins
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.UpdateExpenseRequest true "Expense details to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Frozen status, or insufficient funds"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to update expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// submitExpense godoc
// @Summary Submit a draft expense for approval
// @Description Moves the expense to PENDING_APPROVAL and opens an approval round in the same transaction.
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} ErrorResponse "Division has no eligible approvers"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Expense is not a draft"
// @Security BearerAuth
// @Router /expenses/{id}/submit [post]
func (h *expenseHandler) submitExpense(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	resp, err := h.expenseService.SubmitExpenseForApproval(c.Request.Context(), c.Param("id"), requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to submit expense for approval")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// cancelExpense godoc
// @Summary Cancel an expense
// @Description Withdraws a draft or pending expense, releasing its amount. Pending approvals are closed.
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Expense can no longer be cancelled"
// @Security BearerAuth
// @Router /expenses/{id}/cancel [post]
func (h *expenseHandler) cancelExpense(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.expenseService.CancelExpense(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to cancel expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteExpense godoc
// @Summary Delete a draft expense
// @Description Removes a draft expense and its document records. Submitted expenses can only be cancelled.
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Expense is no longer a draft"
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to delete expense")
		return
	}
	c.Status(http.StatusNoContent)
}

// payExpense godoc
// @Summary Mark an approved expense as paid
// @Description Transitions an approved expense to PAID (admin only).
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Expense is not approved"
// @Security BearerAuth
// @Router /expenses/{id}/pay [post]
func (h *expenseHandler) payExpense(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.expenseService.MarkExpensePaid(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to mark expense paid")
		return
	}
	c.Status(http.StatusNoContent)
}

// listDocuments godoc
// @Summary List an expense's attachments
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {array} dto.ExpenseDocumentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id}/documents [get]
func (h *expenseHandler) listDocuments(c *gin.Context) {
	documents, err := h.expenseService.ListExpenseDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseDocumentResponses(documents))
}

// addDocument godoc
// @Summary Attach a document record to an expense
// @Description Stores file metadata only; file storage is handled elsewhere.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param document body dto.AddExpenseDocumentRequest true "Document metadata"
// @Success 201 {object} dto.ExpenseDocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id}/documents [post]
func (h *expenseHandler) addDocument(c *gin.Context) {
	var req dto.AddExpenseDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	document, err := h.expenseService.AddExpenseDocument(c.Request.Context(), c.Param("id"), req, requestingUserID)
	if err != nil {
		respondServiceError(c, err, "Failed to attach document")
		return
	}
	c.JSON(http.StatusCreated, dto.ToExpenseDocumentResponse(document))
}

// removeDocument godoc
// @Summary Remove a document record from an expense
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Param docID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id}/documents/{docID} [delete]
func (h *expenseHandler) removeDocument(c *gin.Context) {
	requestingUserID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.expenseService.RemoveExpenseDocument(c.Request.Context(), c.Param("id"), c.Param("docID"), requestingUserID); err != nil {
		respondServiceError(c, err, "Failed to remove document")
		return
	}
	c.Status(http.StatusNoContent)
}
