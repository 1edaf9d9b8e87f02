package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/core/services"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountLeaveDays(t *testing.T) {
	tests := []struct {
		name    string
		rule    domain.DayCountRule
		start   time.Time
		end     time.Time
		want    int
		wantErr error
	}{
		{
			name:  "calendar single day",
			rule:  domain.CountCalendarDays,
			start: day(2026, time.August, 3),
			end:   day(2026, time.August, 3),
			want:  1,
		},
		{
			name:  "calendar range spans weekend",
			rule:  domain.CountCalendarDays,
			start: day(2026, time.August, 3), // Monday
			end:   day(2026, time.August, 9), // Sunday
			want:  7,
		},
		{
			name:  "working days skip weekend",
			rule:  domain.CountWorkingDays,
			start: day(2026, time.August, 3), // Monday
			end:   day(2026, time.August, 9), // Sunday
			want:  5,
		},
		{
			name:  "working days across two weeks",
			rule:  domain.CountWorkingDays,
			start: day(2026, time.August, 6),  // Thursday
			end:   day(2026, time.August, 11), // Tuesday
			want:  4,
		},
		{
			name:    "weekend-only range has no working days",
			rule:    domain.CountWorkingDays,
			start:   day(2026, time.August, 8), // Saturday
			end:     day(2026, time.August, 9), // Sunday
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "end before start",
			rule:    domain.CountCalendarDays,
			start:   day(2026, time.August, 9),
			end:     day(2026, time.August, 3),
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := services.CountLeaveDays(tt.rule, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountLeaveDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2026, time.August, 3, 18, 45, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 4, 7, 10, 0, 0, time.UTC)
	got, err := services.CountLeaveDays(domain.CountCalendarDays, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func newBalance(maxDays int) *domain.LeaveBalance {
	b := &domain.LeaveBalance{
		BalanceID:     "bal-1",
		UserID:        "user-1",
		LeaveType:     domain.LeaveAnnual,
		MaxDays:       maxDays,
		LastResetYear: 2026,
	}
	b.Recompute()
	return b
}

func TestApplyLedgerTransitionTable(t *testing.T) {
	tests := []struct {
		name         string
		from, to     domain.RequestStatus
		days         int
		startApplied int
		startAccrued int
		wantApplied  int
		wantAccrued  int
	}{
		{"submit reserves", "", domain.StatusPending, 5, 0, 0, 5, 0},
		{"draft submit reserves", domain.StatusDraft, domain.StatusPending, 5, 0, 0, 5, 0},
		{"approve consumes", domain.StatusPending, domain.StatusApproved, 5, 5, 0, 0, 5},
		{"approve from reviewed consumes", domain.StatusReviewed, domain.StatusApproved, 5, 5, 0, 0, 5},
		{"reject releases", domain.StatusPending, domain.StatusRejected, 5, 5, 0, 0, 0},
		{"withdraw to draft releases", domain.StatusPending, domain.StatusDraft, 5, 5, 0, 0, 0},
		{"unapprove refunds", domain.StatusApproved, domain.StatusRejected, 5, 0, 5, 0, 0},
		{"reopen approved re-reserves", domain.StatusApproved, domain.StatusPending, 5, 0, 5, 5, 0},
		{"resubmit after rejection reserves", domain.StatusRejected, domain.StatusPending, 5, 0, 0, 5, 0},
		{"pending to reviewed is a no-op", domain.StatusPending, domain.StatusReviewed, 5, 5, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBalance(24)
			b.TotalApplied = tt.startApplied
			b.Accrued = tt.startAccrued
			b.Recompute()

			err := services.ApplyLedgerTransition(b, tt.days, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.wantApplied, b.TotalApplied, "TotalApplied")
			assert.Equal(t, tt.wantAccrued, b.Accrued, "Accrued")
			assert.Equal(t, b.MaxDays-(b.TotalApplied+b.Accrued), b.Balance, "Balance stays derived")
		})
	}
}

func TestApplyLedgerTransitionRoundTrip(t *testing.T) {
	b := newBalance(24)

	require.NoError(t, services.ApplyLedgerTransition(b, 5, "", domain.StatusPending))
	assert.Equal(t, 19, b.Balance)

	require.NoError(t, services.ApplyLedgerTransition(b, 5, domain.StatusPending, domain.StatusApproved))
	assert.Equal(t, 19, b.Balance)
	assert.Equal(t, 5, b.Accrued)

	require.NoError(t, services.ApplyLedgerTransition(b, 5, domain.StatusApproved, domain.StatusRejected))
	assert.Equal(t, 24, b.Balance)

	require.NoError(t, services.ApplyLedgerTransition(b, 5, domain.StatusRejected, domain.StatusPending))
	assert.Equal(t, 5, b.TotalApplied)
	assert.Equal(t, 0, b.Accrued)
	assert.Equal(t, 19, b.Balance)
}

func TestApplyLedgerTransitionInsufficientBalance(t *testing.T) {
	b := newBalance(3)

	err := services.ApplyLedgerTransition(b, 5, "", domain.StatusPending)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	// The bucket is untouched after a failed transition.
	assert.Equal(t, 0, b.TotalApplied)
	assert.Equal(t, 0, b.Accrued)
	assert.Equal(t, 3, b.Balance)
}

func TestApplyLedgerTransitionRejectsNegativeDays(t *testing.T) {
	b := newBalance(24)
	err := services.ApplyLedgerTransition(b, -1, "", domain.StatusPending)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEnsureCurrentYear(t *testing.T) {
	b := newBalance(24)
	b.TotalApplied = 3
	b.Accrued = 10
	b.LastResetYear = 2025
	b.Recompute()

	changed := services.EnsureCurrentYear(b, day(2026, time.January, 15), 26)
	assert.True(t, changed)
	assert.Equal(t, 26, b.MaxDays)
	assert.Equal(t, 0, b.TotalApplied)
	assert.Equal(t, 0, b.Accrued)
	assert.Equal(t, 26, b.Balance)
	assert.Equal(t, 2026, b.LastResetYear)

	// Idempotent within the same year.
	changed = services.EnsureCurrentYear(b, day(2026, time.June, 1), 30)
	assert.False(t, changed)
	assert.Equal(t, 26, b.MaxDays)
}

func TestApplyLedgerTransitionClampsAtZeroAfterRollover(t *testing.T) {
	// Reserve in December, roll the bucket over, then decide in January: the
	// stale decrements stop at the reset counters instead of going negative.
	b := newBalance(24)
	require.NoError(t, services.ApplyLedgerTransition(b, 5, "", domain.StatusPending))
	services.EnsureCurrentYear(b, day(2027, time.January, 4), 24)

	require.NoError(t, services.ApplyLedgerTransition(b, 5, domain.StatusPending, domain.StatusApproved))
	assert.Equal(t, 0, b.TotalApplied)
	assert.Equal(t, 5, b.Accrued)
	assert.Equal(t, 19, b.Balance)

	// Rejecting the same pre-rollover approval refunds at most what the new
	// year's counters hold.
	services.EnsureCurrentYear(b, day(2028, time.January, 4), 24)
	require.NoError(t, services.ApplyLedgerTransition(b, 5, domain.StatusApproved, domain.StatusRejected))
	assert.Equal(t, 0, b.Accrued)
	assert.Equal(t, 24, b.Balance)
}
