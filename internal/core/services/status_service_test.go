package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

var engineNow = time.Date(2026, time.August, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func statusPtr(s domain.RequestStatus) *domain.RequestStatus { return &s }

func reviewPtr(s domain.ReviewStatus) *domain.ReviewStatus { return &s }

func actor(id string, role domain.UserRole) domain.User {
	return domain.User{UserID: id, Role: role}
}

func purchaseDoc() *domain.RequestDocument {
	return &domain.RequestDocument{
		RequestID:               "req-1",
		Kind:                    domain.KindPurchaseRequest,
		Title:                   "Office chairs",
		Status:                  domain.StatusPending,
		CreatorRef:              "creator",
		Approver:                strPtr("approver"),
		FinanceReviewer:         strPtr("finance"),
		ProcurementReviewer:     strPtr("procurement"),
		FinanceReviewStatus:     domain.ReviewPending,
		ProcurementReviewStatus: domain.ReviewPending,
	}
}

func paymentDoc() *domain.RequestDocument {
	return &domain.RequestDocument{
		RequestID:  "req-2",
		Kind:       domain.KindPaymentRequest,
		Title:      "Vendor invoice",
		Status:     domain.StatusPending,
		CreatorRef: "creator",
		ReviewedBy: strPtr("reviewer"),
	}
}

func TestTransitionRejectsStatusOutsideWorkflow(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()

	// Payment requests have no DRAFT or REVIEWED state.
	_, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusReviewed)}, actor("reviewer", domain.RoleReviewer), engineNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, doc.Status)
}

func TestTransitionSingleReviewerApproves(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusApproved)}, actor("reviewer", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusPending, result.PreviousStatus)
	assert.Equal(t, domain.StatusApproved, doc.Status)
	require.NotNil(t, doc.ApprovedBy)
	assert.Equal(t, "reviewer", *doc.ApprovedBy)
}

func TestTransitionUnauthorizedStatusDroppedCommentApplies(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()

	change := dto.StatusChangeRequest{
		Status:  statusPtr(domain.StatusApproved),
		Comment: strPtr("please expedite"),
	}
	result, err := engine.Transition(doc, change, actor("bystander", domain.RoleStaff), engineNow)
	require.NoError(t, err)

	// The status write is dropped silently, the comment still lands.
	assert.False(t, result.StatusChanged)
	assert.True(t, result.CommentAdded)
	assert.Equal(t, domain.StatusPending, doc.Status)
	require.Len(t, doc.Comments, 1)
	assert.Equal(t, "bystander", doc.Comments[0].Author)
	assert.Equal(t, "please expedite", doc.Comments[0].Text)
}

func TestTransitionAdminOverridesStatus(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusRejected)}, actor("admin", domain.RoleSuperAdmin), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusRejected, doc.Status)
}

func TestTransitionCommentsPrependNewestFirst(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()

	_, err := engine.Transition(doc, dto.StatusChangeRequest{Comment: strPtr("first")}, actor("creator", domain.RoleStaff), engineNow)
	require.NoError(t, err)
	_, err = engine.Transition(doc, dto.StatusChangeRequest{Comment: strPtr("second")}, actor("creator", domain.RoleStaff), engineNow.Add(time.Minute))
	require.NoError(t, err)

	require.Len(t, doc.Comments, 2)
	assert.Equal(t, "second", doc.Comments[0].Text)
	assert.Equal(t, "first", doc.Comments[1].Text)
}

func TestDualReviewBothApprovalsReachReviewed(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()

	// Finance signs off first: the overall status must not move yet.
	result, err := engine.Transition(doc, dto.StatusChangeRequest{FinanceReviewStatus: reviewPtr(domain.ReviewApproved)}, actor("finance", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.Equal(t, domain.ReviewApproved, doc.FinanceReviewStatus)

	// Procurement completes the pair: the document reaches REVIEWED with the
	// second reviewer as the reviewer of record.
	result, err = engine.Transition(doc, dto.StatusChangeRequest{ProcurementReviewStatus: reviewPtr(domain.ReviewApproved)}, actor("procurement", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusReviewed, doc.Status)
	require.NotNil(t, doc.ReviewedBy)
	assert.Equal(t, "procurement", *doc.ReviewedBy)
}

func TestDualReviewEitherRejectionRejects(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()

	result, err := engine.Transition(doc, dto.StatusChangeRequest{ProcurementReviewStatus: reviewPtr(domain.ReviewRejected)}, actor("procurement", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusRejected, doc.Status)
}

func TestDualReviewSubStatusOwnedByMatchingReviewer(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()

	// The finance reviewer cannot write the procurement sub-status.
	result, err := engine.Transition(doc, dto.StatusChangeRequest{ProcurementReviewStatus: reviewPtr(domain.ReviewApproved)}, actor("finance", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.ReviewPending, doc.ProcurementReviewStatus)
}

func TestDualReviewApproverFinalizesOnlyAfterReviewed(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()

	// Too early: the document is still pending.
	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusApproved)}, actor("approver", domain.RoleApprover), engineNow)
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.StatusPending, doc.Status)

	doc.FinanceReviewStatus = domain.ReviewApproved
	doc.ProcurementReviewStatus = domain.ReviewApproved
	doc.Status = domain.StatusReviewed

	result, err = engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusApproved)}, actor("approver", domain.RoleApprover), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusApproved, doc.Status)
	require.NotNil(t, doc.ApprovedBy)
	assert.Equal(t, "approver", *doc.ApprovedBy)
}

func TestRejectionReleasesActorRoleRefs(t *testing.T) {
	var engine statusEngine
	doc := paymentDoc()
	doc.Status = domain.StatusPending

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusRejected)}, actor("reviewer", domain.RoleReviewer), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusRejected, doc.Status)

	// The rejecting reviewer's claim is released for reassignment.
	assert.Nil(t, doc.ReviewedBy)
}

func TestReviewedClearsStaleApproval(t *testing.T) {
	var engine statusEngine

	// Re-reviewing a document must not leave a stale ApprovedBy behind.
	doc := purchaseDoc()
	doc.Status = domain.StatusReviewed
	doc.ApprovedBy = strPtr("old-approver")
	doc.Approver = strPtr("approver")

	_, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusReviewed)}, actor("approver", domain.RoleApprover), engineNow)
	require.NoError(t, err)
	assert.Nil(t, doc.ApprovedBy)
	require.NotNil(t, doc.ReviewedBy)
	assert.Equal(t, "approver", *doc.ReviewedBy)
}

func TestTransitionCreatorSubmitsDraft(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()
	doc.Status = domain.StatusDraft

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusPending)}, actor("creator", domain.RoleStaff), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusDraft, result.PreviousStatus)
	assert.Equal(t, domain.StatusPending, doc.Status)
}

func TestTransitionNonCreatorCannotSubmitDraft(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()
	doc.Status = domain.StatusDraft

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusPending)}, actor("bystander", domain.RoleStaff), engineNow)
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.StatusDraft, doc.Status)
}

func TestTransitionCreatorResubmitAfterRejectionResetsReviews(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()
	doc.Status = domain.StatusRejected
	doc.FinanceReviewStatus = domain.ReviewRejected
	doc.ProcurementReviewStatus = domain.ReviewApproved

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusPending)}, actor("creator", domain.RoleStaff), engineNow)
	require.NoError(t, err)
	assert.True(t, result.StatusChanged)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.Equal(t, domain.ReviewPending, doc.FinanceReviewStatus)
	assert.Equal(t, domain.ReviewPending, doc.ProcurementReviewStatus)
}

func TestTransitionCreatorCannotApproveOwnDraft(t *testing.T) {
	var engine statusEngine
	doc := purchaseDoc()
	doc.Status = domain.StatusDraft

	result, err := engine.Transition(doc, dto.StatusChangeRequest{Status: statusPtr(domain.StatusApproved)}, actor("creator", domain.RoleStaff), engineNow)
	require.NoError(t, err)
	assert.False(t, result.StatusChanged)
	assert.Equal(t, domain.StatusDraft, doc.Status)
}
