package dto

import "github.com/casfod/staff-portal-backend/internal/core/domain"

// UpdateSettingsRequest replaces the mutable parts of the settings record.
type UpdateSettingsRequest struct {
	EmploymentInfoLocked *bool                    `json:"employmentInfoLocked"`
	LeaveEntitlements    map[domain.LeaveType]int `json:"leaveEntitlements" binding:"omitempty,dive,gte=0"`
}

// SettingsResponse is the external shape of the settings record.
type SettingsResponse struct {
	EmploymentInfoLocked bool                     `json:"employmentInfoLocked"`
	LeaveEntitlements    map[domain.LeaveType]int `json:"leaveEntitlements"`
}

// ToSettingsResponse converts the domain settings record.
func ToSettingsResponse(s *domain.SystemSettings) SettingsResponse {
	return SettingsResponse{
		EmploymentInfoLocked: s.EmploymentInfoLocked,
		LeaveEntitlements:    s.LeaveEntitlements,
	}
}
