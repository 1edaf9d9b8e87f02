package notify

import (
	"context"
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
)

// EmailConfig holds SMTP connection settings for the email dispatcher.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// emailDispatcher sends workflow notifications over SMTP. Recipient user IDs
// are resolved to addresses through the user repository; recipients without
// an account (deactivated, deleted) are skipped.
type emailDispatcher struct {
	dialer   *gomail.Dialer
	from     string
	userRepo portsrepo.UserRepository
}

// NewEmailDispatcher creates an SMTP-backed NotificationDispatcher.
func NewEmailDispatcher(cfg EmailConfig, userRepo portsrepo.UserRepository) portssvc.NotificationDispatcher {
	return &emailDispatcher{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		userRepo: userRepo,
	}
}

var _ portssvc.NotificationDispatcher = (*emailDispatcher)(nil)

func (d *emailDispatcher) Send(ctx context.Context, n domain.Notification) error {
	if n.Empty() {
		return nil
	}

	users, err := d.userRepo.FindUsersByIDs(ctx, n.Recipients)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipients: %w", err)
	}

	var addresses []string
	for _, id := range n.Recipients {
		if u, ok := users[id]; ok && u.DeletedAt == nil {
			addresses = append(addresses, u.Email)
		}
	}
	if len(addresses) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", d.from)
	msg.SetHeader("Bcc", addresses...)
	msg.SetHeader("Subject", subjectFor(n))
	msg.SetBody("text/plain", bodyFor(n))

	if err := d.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

func subjectFor(n domain.Notification) string {
	kind := strings.ReplaceAll(strings.ToLower(string(n.Kind)), "_", " ")
	switch n.Reason {
	case domain.ReasonAssigned:
		return fmt.Sprintf("Action required: %s awaiting you", kind)
	case domain.ReasonReviewed:
		return fmt.Sprintf("A %s has been reviewed", kind)
	case domain.ReasonApproved:
		return fmt.Sprintf("Your %s was approved", kind)
	case domain.ReasonRejected:
		return fmt.Sprintf("Your %s was rejected", kind)
	case domain.ReasonCopied:
		return fmt.Sprintf("A %s was shared with you", kind)
	default:
		return fmt.Sprintf("Update on a %s", kind)
	}
}

func bodyFor(n domain.Notification) string {
	var b strings.Builder
	b.WriteString(n.Summary)
	b.WriteString("\n\nReference: ")
	b.WriteString(n.RequestID)
	b.WriteString("\n\nLog in to the staff portal to view the request.\n")
	return b.String()
}
