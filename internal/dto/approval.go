package dto

import (
	"time"

	"github.com/budgetgov/budget_management_app/internal/core/domain"
)

// DecideApprovalRequest records an approver's decision on a pending approval.
// Comments are required when rejecting.
type DecideApprovalRequest struct {
	Decision domain.ApprovalDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comments string                  `json:"comments"`
}

// ApprovalResponse defines the data returned for an approval.
type ApprovalResponse struct {
	ApprovalID  string                `json:"approvalID"`
	SubjectType domain.ApprovalType   `json:"subjectType"`
	SubjectID   string                `json:"subjectID"`
	Level       int                   `json:"level"`
	ApproverID  string                `json:"approverID"`
	Status      domain.ApprovalStatus `json:"status"`
	Comments    string                `json:"comments,omitempty"`
	DecidedAt   *time.Time            `json:"decidedAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ListApprovalsParams defines query parameters for listing a user's approvals.
type ListApprovalsParams struct {
	Status    *domain.ApprovalStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit     int                    `form:"limit,default=20"`
	NextToken *string                `form:"nextToken"`
}

// ListApprovalsResponse wraps the list of approvals with the pagination token.
type ListApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// SubmissionResponse summarizes the approval round created by a submission.
type SubmissionResponse struct {
	SubjectType domain.ApprovalType `json:"subjectType"`
	SubjectID   string              `json:"subjectID"`
	Approvals   []ApprovalResponse  `json:"approvals"`
}

// ToApprovalResponse converts a domain.Approval to ApprovalResponse DTO
func ToApprovalResponse(a *domain.Approval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID:  a.ApprovalID,
		SubjectType: a.Subject.Type,
		SubjectID:   a.Subject.ID,
		Level:       a.Level,
		ApproverID:  a.ApproverID,
		Status:      a.Status,
		Comments:    a.Comments,
		DecidedAt:   a.DecidedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToApprovalResponses converts a slice of domain.Approval to []ApprovalResponse.
func ToApprovalResponses(approvals []domain.Approval) []ApprovalResponse {
	responses := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		responses[i] = ToApprovalResponse(&a)
	}
	return responses
}

// ToListApprovalsResponse converts a slice of domain.Approval to ListApprovalsResponse DTO
func ToListApprovalsResponse(approvals []domain.Approval, nextToken *string) ListApprovalsResponse {
	return ListApprovalsResponse{Approvals: ToApprovalResponses(approvals), NextToken: nextToken}
}
