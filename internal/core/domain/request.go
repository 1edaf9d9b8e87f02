package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the workflow state of a request document.
type RequestStatus string

const (
	StatusDraft    RequestStatus = "DRAFT"
	StatusPending  RequestStatus = "PENDING"
	StatusReviewed RequestStatus = "REVIEWED"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// IsValid reports whether s is one of the workflow statuses.
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusReviewed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether a document in this status accepts no further edits.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ReviewStatus is the sub-state owned by an individual reviewer on a
// dual-reviewer document.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "PENDING"
	ReviewApproved ReviewStatus = "APPROVED"
	ReviewRejected ReviewStatus = "REJECTED"
)

// IsValid reports whether s is one of the reviewer sub-statuses.
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// RequestKind identifies the request document type.
type RequestKind string

const (
	KindPurchaseRequest   RequestKind = "PURCHASE_REQUEST"
	KindPaymentRequest    RequestKind = "PAYMENT_REQUEST"
	KindExpenseClaim      RequestKind = "EXPENSE_CLAIM"
	KindAdvanceRequest    RequestKind = "ADVANCE_REQUEST"
	KindRFQ               RequestKind = "RFQ"
	KindPurchaseOrder     RequestKind = "PURCHASE_ORDER"
	KindGoodsReceivedNote RequestKind = "GOODS_RECEIVED_NOTE"
	KindLeaveApplication  RequestKind = "LEAVE_APPLICATION"
)

// IsValid reports whether k is a known request kind.
func (k RequestKind) IsValid() bool {
	switch k {
	case KindPurchaseRequest, KindPaymentRequest, KindExpenseClaim, KindAdvanceRequest,
		KindRFQ, KindPurchaseOrder, KindGoodsReceivedNote, KindLeaveApplication:
		return true
	}
	return false
}

// DualReview reports whether the kind is decided by two parallel reviewers
// (finance and procurement) before final approval.
func (k RequestKind) DualReview() bool {
	return k == KindPurchaseRequest
}

// AllowedStatuses returns the status subset the kind participates in.
// Purchase requests and leave applications use the full five-state flow;
// the simpler kinds skip DRAFT and REVIEWED.
func (k RequestKind) AllowedStatuses() []RequestStatus {
	switch k {
	case KindPurchaseRequest, KindLeaveApplication:
		return []RequestStatus{StatusDraft, StatusPending, StatusReviewed, StatusApproved, StatusRejected}
	default:
		return []RequestStatus{StatusPending, StatusApproved, StatusRejected}
	}
}

// Allows reports whether status s is part of the kind's workflow.
func (k RequestKind) Allows(s RequestStatus) bool {
	for _, allowed := range k.AllowedStatuses() {
		if allowed == s {
			return true
		}
	}
	return false
}

// Comment is a single entry in a document's comment thread. Entries are
// append-only; edits and deletes only flip flags, the text history is kept.
type Comment struct {
	CommentID string    `json:"commentID"`
	Author    string    `json:"author"` // UserID reference
	Text      string    `json:"text"`
	Edited    bool      `json:"edited"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestItem is a single line item on a procurement or finance document.
type RequestItem struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// RequestDocument is the generic entity underlying every request type.
// CreatorRef is the uniform creator reference for all kinds; it is immutable
// after creation. The Finance*/Procurement* fields are populated only for
// dual-review kinds.
type RequestDocument struct {
	RequestID  string          `json:"requestID"`
	Kind       RequestKind     `json:"kind"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Status     RequestStatus   `json:"status"`
	CreatorRef string          `json:"creatorRef"`
	ReviewedBy *string         `json:"reviewedBy,omitempty"`
	ApprovedBy *string         `json:"approvedBy,omitempty"`
	Approver   *string         `json:"approver,omitempty"` // designated final approver

	FinanceReviewer         *string      `json:"financeReviewer,omitempty"`
	ProcurementReviewer     *string      `json:"procurementReviewer,omitempty"`
	FinanceReviewStatus     ReviewStatus `json:"financeReviewStatus,omitempty"`
	ProcurementReviewStatus ReviewStatus `json:"procurementReviewStatus,omitempty"`

	Items    []RequestItem `json:"items,omitempty"`
	Comments []Comment     `json:"comments,omitempty"`
	CopiedTo []string      `json:"copiedTo,omitempty"`
	AuditFields
}

// ActiveComments returns the comment thread with soft-deleted entries
// filtered out. The underlying slice is never mutated.
func (d *RequestDocument) ActiveComments() []Comment {
	active := make([]Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		if !c.Deleted {
			active = append(active, c)
		}
	}
	return active
}

// IsCopiedTo reports whether userID already appears in the copiedTo set.
func (d *RequestDocument) IsCopiedTo(userID string) bool {
	for _, id := range d.CopiedTo {
		if id == userID {
			return true
		}
	}
	return false
}
