package services

import (
	"fmt"
	"time"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// The leave ledger tracks reserved versus consumed days per entitlement
// bucket. Submitting an application reserves days (TotalApplied), approval
// moves them to Accrued, and rejection or withdrawal releases them. The one
// hard invariant: Balance = MaxDays - (TotalApplied + Accrued) never goes
// negative, and any transition that would make it negative fails before any
// state is mutated.

// CountLeaveDays counts the days consumed by an inclusive date range under
// the given rule: either raw calendar days or Mon-Fri working days.
func CountLeaveDays(rule domain.DayCountRule, start, end time.Time) (int, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end date is before start date", apperrors.ErrValidation)
	}

	if rule == domain.CountCalendarDays {
		return int(end.Sub(start).Hours()/24) + 1, nil
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	if days == 0 {
		return 0, fmt.Errorf("%w: date range contains no working days", apperrors.ErrValidation)
	}
	return days, nil
}

// EnsureCurrentYear performs the lazy year rollover: when the bucket was last
// reset in an earlier year than today, all counters return to their defaults
// with maxDays as the new entitlement ceiling. Idempotent; it reports whether
// the bucket changed so callers know to persist it.
func EnsureCurrentYear(b *domain.LeaveBalance, today time.Time, maxDays int) bool {
	year := today.Year()
	if b.LastResetYear >= year {
		return false
	}
	b.MaxDays = maxDays
	b.TotalApplied = 0
	b.Accrued = 0
	b.LastResetYear = year
	b.Recompute()
	return true
}

// ApplyLedgerTransition applies the balance effect of moving an application
// of `days` days from one workflow status to another. An empty `from` means
// the application is being created.
//
// The transition table:
//
//	(none)/draft      -> pending            reserve days
//	pending/reviewed  -> approved           consume reserved days
//	pending/reviewed  -> rejected/draft     release reserved days
//	approved          -> rejected           refund consumed days
//	approved          -> pending/reviewed   reopen: consume back to reserved
//	rejected          -> pending/reviewed   re-reserve days
//
// Transitions not in the table (for example pending <-> reviewed) have no
// balance effect. TotalApplied and Accrued never drop below zero; decrements
// belonging to a pre-rollover reservation stop at the reset counters. The
// mutation is all-or-nothing: on ErrInsufficientBalance the bucket is left
// exactly as it was.
func ApplyLedgerTransition(b *domain.LeaveBalance, days int, from, to domain.RequestStatus) error {
	if days < 0 {
		return fmt.Errorf("%w: negative day count %d", apperrors.ErrValidation, days)
	}

	next := *b
	switch {
	case isUndecided(from) && to == domain.StatusPending:
		next.TotalApplied += days
	case inReview(from) && to == domain.StatusApproved:
		next.TotalApplied -= days
		next.Accrued += days
	case inReview(from) && (to == domain.StatusRejected || to == domain.StatusDraft):
		next.TotalApplied -= days
	case from == domain.StatusApproved && to == domain.StatusRejected:
		next.Accrued -= days
	case from == domain.StatusApproved && inReview(to):
		next.TotalApplied += days
		next.Accrued -= days
	case from == domain.StatusRejected && inReview(to):
		next.TotalApplied += days
	default:
		return nil
	}

	// A decision on an application reserved before a year rollover decrements
	// counters the rollover already reset; clamp at zero so stale releases
	// cannot inflate the new year's entitlement.
	if next.TotalApplied < 0 {
		next.TotalApplied = 0
	}
	if next.Accrued < 0 {
		next.Accrued = 0
	}

	next.Recompute()
	if next.Balance < 0 {
		return fmt.Errorf("%w: %s needs %d day(s), %d available", apperrors.ErrInsufficientBalance, b.LeaveType, days, b.Balance)
	}
	*b = next
	return nil
}

func isUndecided(s domain.RequestStatus) bool {
	return s == "" || s == domain.StatusDraft
}

func inReview(s domain.RequestStatus) bool {
	return s == domain.StatusPending || s == domain.StatusReviewed
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
