package domain

import "time"

// LeaveType identifies a leave category with its own entitlement bucket.
type LeaveType string

const (
	LeaveAnnual        LeaveType = "ANNUAL"
	LeaveSick          LeaveType = "SICK"
	LeaveCompassionate LeaveType = "COMPASSIONATE"
	LeaveMaternity     LeaveType = "MATERNITY"
	LeavePaternity     LeaveType = "PATERNITY"
	LeaveWithoutPay    LeaveType = "LEAVE_WITHOUT_PAY"
)

// IsValid reports whether t is a known leave type.
func (t LeaveType) IsValid() bool {
	switch t {
	case LeaveAnnual, LeaveSick, LeaveCompassionate, LeaveMaternity, LeavePaternity, LeaveWithoutPay:
		return true
	}
	return false
}

// DayCountRule determines how days are counted over an inclusive date range.
type DayCountRule string

const (
	CountCalendarDays DayCountRule = "CALENDAR_DAYS"
	CountWorkingDays  DayCountRule = "WORKING_DAYS" // Mon-Fri only
)

// DayCountRule returns the counting rule for the leave type. Annual, sick and
// compassionate leave consume working days; the long-absence types consume
// calendar days.
func (t LeaveType) DayCountRule() DayCountRule {
	switch t {
	case LeavePaternity, LeaveMaternity, LeaveWithoutPay:
		return CountCalendarDays
	default:
		return CountWorkingDays
	}
}

// LeaveBalance is the per-user, per-leave-type entitlement bucket for one
// calendar year. Balance is always derived: MaxDays - (TotalApplied + Accrued).
// Version is an optimistic concurrency token checked by the repository on
// every write.
type LeaveBalance struct {
	BalanceID     string    `json:"balanceID"`
	UserID        string    `json:"userID"`
	LeaveType     LeaveType `json:"leaveType"`
	MaxDays       int       `json:"maxDays"`
	TotalApplied  int       `json:"totalApplied"` // reserved by undecided applications
	Accrued       int       `json:"accrued"`      // consumed by approved applications
	Balance       int       `json:"balance"`
	LastResetYear int       `json:"lastResetYear"`
	Version       int       `json:"-"`
	AuditFields
}

// Recompute refreshes the derived Balance field from the counters.
func (b *LeaveBalance) Recompute() {
	b.Balance = b.MaxDays - (b.TotalApplied + b.Accrued)
}

// LeaveApplication is a leave request document with its date range and the
// day count computed at submission time.
type LeaveApplication struct {
	RequestDocument
	LeaveType                 LeaveType `json:"leaveType"`
	StartDate                 time.Time `json:"startDate"`
	EndDate                   time.Time `json:"endDate"`
	TotalDaysApplied          int       `json:"totalDaysApplied"`
	LeaveBalanceAtApplication int       `json:"leaveBalanceAtApplication"`
	Reason                    string    `json:"reason"`
}
