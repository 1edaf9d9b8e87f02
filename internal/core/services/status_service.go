package services

import (
	"fmt"
	"time"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/google/uuid"
)

// statusEngine applies a requested status change to a request document. It is
// shared by every request kind: purchase requests go through the
// dual-reviewer path, everything else through the single-reviewer path.
//
// The engine only mutates the in-memory document; persisting the result and
// dispatching notifications belong to the calling service.
type statusEngine struct{}

// transitionResult reports what the engine changed so the caller can resolve
// notification recipients and decide what to persist.
type transitionResult struct {
	StatusChanged  bool
	PreviousStatus domain.RequestStatus
	CommentAdded   bool
}

// Transition validates and applies change on behalf of actor.
//
// A requested status outside the kind's workflow fails with
// apperrors.ErrInvalidTransition and leaves the document untouched. The
// creator submits their own draft, or resubmits after rejection, by
// requesting PENDING. Any other status
// write by an actor without the matching assignment is dropped silently while
// the comment portion of the request still applies; this mirrors the
// partial-apply behaviour the HTTP layer has always exposed.
func (statusEngine) Transition(doc *domain.RequestDocument, change dto.StatusChangeRequest, actor domain.User, now time.Time) (transitionResult, error) {
	result := transitionResult{PreviousStatus: doc.Status}

	if change.Status != nil {
		if !change.Status.IsValid() || !doc.Kind.Allows(*change.Status) {
			return result, fmt.Errorf("%w: status %q is not part of the %s workflow", apperrors.ErrInvalidTransition, *change.Status, doc.Kind)
		}
	}
	if change.FinanceReviewStatus != nil && !change.FinanceReviewStatus.IsValid() {
		return result, fmt.Errorf("%w: invalid finance review status %q", apperrors.ErrInvalidTransition, *change.FinanceReviewStatus)
	}
	if change.ProcurementReviewStatus != nil && !change.ProcurementReviewStatus.IsValid() {
		return result, fmt.Errorf("%w: invalid procurement review status %q", apperrors.ErrInvalidTransition, *change.ProcurementReviewStatus)
	}

	if change.Comment != nil && *change.Comment != "" {
		doc.Comments = append([]domain.Comment{{
			CommentID: uuid.NewString(),
			Author:    actor.UserID,
			Text:      *change.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}}, doc.Comments...)
		result.CommentAdded = true
	}

	if applyCreatorSubmission(doc, change, actor, &result) {
		// Submission handled; reviewer paths do not apply.
	} else if doc.Kind.DualReview() {
		applyDualReviewChange(doc, change, actor, &result)
	} else {
		applySingleReviewChange(doc, change, actor, &result)
	}

	if result.StatusChanged || result.CommentAdded {
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = actor.UserID
	}
	return result, nil
}

// applyCreatorSubmission lets the document's creator move their own draft
// into the workflow, or resubmit after a rejection. Only the creator may make
// this write, and only towards PENDING. Resubmitting a dual-review document
// resets both sub-statuses so the reviewers start over.
func applyCreatorSubmission(doc *domain.RequestDocument, change dto.StatusChangeRequest, actor domain.User, result *transitionResult) bool {
	if change.Status == nil || *change.Status != domain.StatusPending {
		return false
	}
	if doc.Status != domain.StatusDraft && doc.Status != domain.StatusRejected {
		return false
	}
	if doc.CreatorRef != actor.UserID {
		return false
	}
	writeStatus(doc, domain.StatusPending, actor, result)
	if doc.Kind.DualReview() {
		doc.FinanceReviewStatus = domain.ReviewPending
		doc.ProcurementReviewStatus = domain.ReviewPending
	}
	return true
}

// applyDualReviewChange handles purchase requests: each reviewer owns exactly
// one sub-status, and the overall status is written only by the designated
// approver once the document has reached REVIEWED.
func applyDualReviewChange(doc *domain.RequestDocument, change dto.StatusChangeRequest, actor domain.User, result *transitionResult) {
	subStatusWritten := false

	if change.FinanceReviewStatus != nil && refMatches(doc.FinanceReviewer, actor.UserID) {
		doc.FinanceReviewStatus = *change.FinanceReviewStatus
		subStatusWritten = true
	}
	if change.ProcurementReviewStatus != nil && refMatches(doc.ProcurementReviewer, actor.UserID) {
		doc.ProcurementReviewStatus = *change.ProcurementReviewStatus
		subStatusWritten = true
	}

	if subStatusWritten {
		deriveOverallStatus(doc, actor, result)
	}

	// The overall status may be written only by the designated final approver,
	// and only once both reviewers have signed off.
	if change.Status != nil && refMatches(doc.Approver, actor.UserID) && doc.Status == domain.StatusReviewed {
		writeStatus(doc, *change.Status, actor, result)
	}
}

// deriveOverallStatus recomputes the overall status from the two sub-statuses
// after a sub-status write. Either rejection rejects the document; both
// approvals move a pending document to REVIEWED with the acting reviewer as
// the reviewer of record.
func deriveOverallStatus(doc *domain.RequestDocument, actor domain.User, result *transitionResult) {
	switch {
	case doc.FinanceReviewStatus == domain.ReviewRejected || doc.ProcurementReviewStatus == domain.ReviewRejected:
		if doc.Status != domain.StatusRejected {
			writeStatus(doc, domain.StatusRejected, actor, result)
		}
	case doc.FinanceReviewStatus == domain.ReviewApproved && doc.ProcurementReviewStatus == domain.ReviewApproved:
		if doc.Status == domain.StatusPending {
			writeStatus(doc, domain.StatusReviewed, actor, result)
		}
	}
}

// applySingleReviewChange handles every other kind: the requested status is
// written when the actor is the assigned reviewer or approver, or holds an
// administrative override role. Anyone else's status write is dropped.
func applySingleReviewChange(doc *domain.RequestDocument, change dto.StatusChangeRequest, actor domain.User, result *transitionResult) {
	if change.Status == nil || *change.Status == doc.Status {
		return
	}
	authorized := refMatches(doc.ReviewedBy, actor.UserID) ||
		refMatches(doc.Approver, actor.UserID) ||
		refMatches(doc.ApprovedBy, actor.UserID) ||
		actor.Role.CanOverrideStatus()
	if !authorized {
		return
	}
	writeStatus(doc, *change.Status, actor, result)
}

// writeStatus applies the status and its role-reference side effects.
func writeStatus(doc *domain.RequestDocument, next domain.RequestStatus, actor domain.User, result *transitionResult) {
	prev := doc.Status
	doc.Status = next
	result.StatusChanged = true

	switch next {
	case domain.StatusReviewed:
		actorID := actor.UserID
		doc.ReviewedBy = &actorID
		doc.ApprovedBy = nil
	case domain.StatusApproved:
		actorID := actor.UserID
		doc.ApprovedBy = &actorID
	case domain.StatusRejected:
		// Rejecting releases the rejecting actor's claim on the document so it
		// can be reassigned on resubmission.
		if prev == domain.StatusPending || prev == domain.StatusReviewed || prev == domain.StatusApproved {
			if refMatches(doc.ReviewedBy, actor.UserID) {
				doc.ReviewedBy = nil
			}
			if refMatches(doc.ApprovedBy, actor.UserID) {
				doc.ApprovedBy = nil
			}
		}
	}
}

func refMatches(ref *string, userID string) bool {
	return ref != nil && *ref == userID
}
