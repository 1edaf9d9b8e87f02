package domain

// NotificationReason is the semantic cause attached to a recipient list.
type NotificationReason string

const (
	ReasonAssigned NotificationReason = "ASSIGNED"
	ReasonReviewed NotificationReason = "REVIEWED"
	ReasonApproved NotificationReason = "APPROVED"
	ReasonRejected NotificationReason = "REJECTED"
	ReasonCopied   NotificationReason = "COPIED"
)

// Notification is a deduplicated recipient list with a reason code and a
// short document summary. Transport (email composition and delivery) is an
// external collaborator behind the NotificationDispatcher port.
type Notification struct {
	Recipients []string           `json:"recipients"` // UserID references
	Reason     NotificationReason `json:"reason"`
	RequestID  string             `json:"requestID"`
	Kind       RequestKind        `json:"kind"`
	Summary    string             `json:"summary"`
}

// Empty reports whether there is nobody to notify.
func (n Notification) Empty() bool {
	return len(n.Recipients) == 0
}
