package dto

import (
	"time"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest is a line item on a new request document.
type CreateItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateRequestRequest creates a new request document of the kind named in
// the route. Reviewer/approver assignments are set at creation time.
type CreateRequestRequest struct {
	Title               string              `json:"title" binding:"required"`
	Amount              decimal.Decimal     `json:"amount"`
	Items               []CreateItemRequest `json:"items" binding:"omitempty,dive"`
	Draft               bool                `json:"draft"`
	Approver            *string             `json:"approver"`
	ReviewedBy          *string             `json:"reviewedBy"`
	FinanceReviewer     *string             `json:"financeReviewer"`
	ProcurementReviewer *string             `json:"procurementReviewer"`
}

// StatusChangeRequest carries a requested transition. Every field is
// optional; a comment-only change is valid. The sub-status fields apply to
// dual-reviewer kinds only.
type StatusChangeRequest struct {
	Status                  *domain.RequestStatus `json:"status" binding:"omitempty,oneof=DRAFT PENDING REVIEWED APPROVED REJECTED"`
	Comment                 *string               `json:"comment" binding:"omitempty,min=1"`
	FinanceReviewStatus     *domain.ReviewStatus  `json:"financeReviewStatus" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	ProcurementReviewStatus *domain.ReviewStatus  `json:"procurementReviewStatus" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// CopyRequestRequest shares a document with additional recipients.
type CopyRequestRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,required"`
}

// UpdateCommentRequest edits or soft-deletes a comment.
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// ListRequestsParams holds pagination parameters for request listings.
type ListRequestsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// CommentResponse is a single active comment entry.
type CommentResponse struct {
	CommentID string    `json:"commentID"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemResponse is a line item on a request document.
type ItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// RequestResponse is the external shape of a request document. Soft-deleted
// comments are filtered out before this type is built.
type RequestResponse struct {
	RequestID               string               `json:"requestID"`
	Kind                    domain.RequestKind   `json:"kind"`
	Title                   string               `json:"title"`
	Amount                  decimal.Decimal      `json:"amount"`
	Status                  domain.RequestStatus `json:"status"`
	CreatorRef              string               `json:"creatorRef"`
	ReviewedBy              *string              `json:"reviewedBy,omitempty"`
	ApprovedBy              *string              `json:"approvedBy,omitempty"`
	Approver                *string              `json:"approver,omitempty"`
	FinanceReviewer         *string              `json:"financeReviewer,omitempty"`
	ProcurementReviewer     *string              `json:"procurementReviewer,omitempty"`
	FinanceReviewStatus     domain.ReviewStatus  `json:"financeReviewStatus,omitempty"`
	ProcurementReviewStatus domain.ReviewStatus  `json:"procurementReviewStatus,omitempty"`
	Items                   []ItemResponse       `json:"items,omitempty"`
	Comments                []CommentResponse    `json:"comments"`
	CopiedTo                []string             `json:"copiedTo,omitempty"`
	CreatedAt               time.Time            `json:"createdAt"`
	LastUpdatedAt           time.Time            `json:"lastUpdatedAt"`
}

// ListRequestsResponse is a paginated listing of request documents.
type ListRequestsResponse struct {
	Requests  []RequestResponse `json:"requests"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToCommentResponses converts active domain comments to their DTO form.
func ToCommentResponses(comments []domain.Comment) []CommentResponse {
	responses := make([]CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = CommentResponse{
			CommentID: c.CommentID,
			Author:    c.Author,
			Text:      c.Text,
			Edited:    c.Edited,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return responses
}

// ToRequestResponse converts a domain document to its DTO form, filtering
// soft-deleted comments at this boundary.
func ToRequestResponse(d *domain.RequestDocument) RequestResponse {
	items := make([]ItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = ItemResponse{
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}
	return RequestResponse{
		RequestID:               d.RequestID,
		Kind:                    d.Kind,
		Title:                   d.Title,
		Amount:                  d.Amount,
		Status:                  d.Status,
		CreatorRef:              d.CreatorRef,
		ReviewedBy:              d.ReviewedBy,
		ApprovedBy:              d.ApprovedBy,
		Approver:                d.Approver,
		FinanceReviewer:         d.FinanceReviewer,
		ProcurementReviewer:     d.ProcurementReviewer,
		FinanceReviewStatus:     d.FinanceReviewStatus,
		ProcurementReviewStatus: d.ProcurementReviewStatus,
		Items:                   items,
		Comments:                ToCommentResponses(d.ActiveComments()),
		CopiedTo:                d.CopiedTo,
		CreatedAt:               d.CreatedAt,
		LastUpdatedAt:           d.LastUpdatedAt,
	}
}

// ToRequestResponses converts a slice of domain documents.
func ToRequestResponses(docs []domain.RequestDocument) []RequestResponse {
	responses := make([]RequestResponse, len(docs))
	for i := range docs {
		responses[i] = ToRequestResponse(&docs[i])
	}
	return responses
}
