package dto

import (
	"time"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// ApplyLeaveRequest submits a new leave application. Dates are inclusive.
type ApplyLeaveRequest struct {
	LeaveType  domain.LeaveType `json:"leaveType" binding:"required,oneof=ANNUAL SICK COMPASSIONATE MATERNITY PATERNITY LEAVE_WITHOUT_PAY"`
	StartDate  time.Time        `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate    time.Time        `json:"endDate" binding:"required" time_format:"2006-01-02"`
	Reason     string           `json:"reason"`
	Draft      bool             `json:"draft"`
	ReviewedBy *string          `json:"reviewedBy"`
	Approver   *string          `json:"approver"`
}

// LeaveResponse is the external shape of a leave application.
type LeaveResponse struct {
	RequestResponse
	LeaveType                 domain.LeaveType `json:"leaveType"`
	StartDate                 time.Time        `json:"startDate"`
	EndDate                   time.Time        `json:"endDate"`
	TotalDaysApplied          int              `json:"totalDaysApplied"`
	LeaveBalanceAtApplication int              `json:"leaveBalanceAtApplication"`
	Reason                    string           `json:"reason"`
}

// LeaveBalanceResponse is one entitlement bucket for the current year.
type LeaveBalanceResponse struct {
	LeaveType    domain.LeaveType `json:"leaveType"`
	MaxDays      int              `json:"maxDays"`
	TotalApplied int              `json:"totalApplied"`
	Accrued      int              `json:"accrued"`
	Balance      int              `json:"balance"`
	Year         int              `json:"year"`
}

// ListLeavesResponse is a paginated listing of leave applications.
type ListLeavesResponse struct {
	Leaves    []LeaveResponse `json:"leaves"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLeaveResponse converts a domain leave application to its DTO form.
func ToLeaveResponse(app *domain.LeaveApplication) LeaveResponse {
	return LeaveResponse{
		RequestResponse:           ToRequestResponse(&app.RequestDocument),
		LeaveType:                 app.LeaveType,
		StartDate:                 app.StartDate,
		EndDate:                   app.EndDate,
		TotalDaysApplied:          app.TotalDaysApplied,
		LeaveBalanceAtApplication: app.LeaveBalanceAtApplication,
		Reason:                    app.Reason,
	}
}

// ToLeaveResponses converts a slice of domain leave applications.
func ToLeaveResponses(apps []domain.LeaveApplication) []LeaveResponse {
	responses := make([]LeaveResponse, len(apps))
	for i := range apps {
		responses[i] = ToLeaveResponse(&apps[i])
	}
	return responses
}

// ToLeaveBalanceResponse converts a domain balance bucket.
func ToLeaveBalanceResponse(b domain.LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		LeaveType:    b.LeaveType,
		MaxDays:      b.MaxDays,
		TotalApplied: b.TotalApplied,
		Accrued:      b.Accrued,
		Balance:      b.Balance,
		Year:         b.LastResetYear,
	}
}
