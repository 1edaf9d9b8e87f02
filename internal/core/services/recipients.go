package services

import (
	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// ResolveRecipients is a pure function mapping a status transition to the set
// of users that should hear about it. The result is deduplicated and never
// includes the acting user. Transport is the dispatcher's problem; the
// engine's obligation ends here.
func ResolveRecipients(prev, next domain.RequestStatus, doc *domain.RequestDocument, actorUserID string) domain.Notification {
	notification := domain.Notification{
		RequestID: doc.RequestID,
		Kind:      doc.Kind,
		Summary:   doc.Title,
	}

	var candidates []string
	switch next {
	case domain.StatusPending:
		// Submission (or resubmission): alert everyone assigned to act.
		notification.Reason = domain.ReasonAssigned
		candidates = collectRefs(doc.ReviewedBy, doc.Approver, doc.FinanceReviewer, doc.ProcurementReviewer)
	case domain.StatusReviewed:
		notification.Reason = domain.ReasonReviewed
		candidates = append(collectRefs(doc.Approver), doc.CreatorRef)
	case domain.StatusApproved:
		notification.Reason = domain.ReasonApproved
		candidates = []string{doc.CreatorRef}
	case domain.StatusRejected:
		notification.Reason = domain.ReasonRejected
		candidates = []string{doc.CreatorRef}
	default:
		return notification
	}

	notification.Recipients = dedupeExcluding(candidates, actorUserID)
	return notification
}

// CopyNotification builds the notification for a copy/share fan-out, aimed
// only at the newly added recipients.
func CopyNotification(doc *domain.RequestDocument, added []string) domain.Notification {
	return domain.Notification{
		Recipients: dedupeExcluding(added, doc.CreatorRef),
		Reason:     domain.ReasonCopied,
		RequestID:  doc.RequestID,
		Kind:       doc.Kind,
		Summary:    doc.Title,
	}
}

func collectRefs(refs ...*string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && *ref != "" {
			out = append(out, *ref)
		}
	}
	return out
}

func dedupeExcluding(ids []string, exclude string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
