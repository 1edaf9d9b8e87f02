package domain

// SystemSettings is the explicit configuration record passed into the
// services that need it. It replaces ad-hoc global lookups: callers load it
// once per operation and hand it down.
type SystemSettings struct {
	SettingsID           string            `json:"settingsID"`
	EmploymentInfoLocked bool              `json:"employmentInfoLocked"`
	LeaveEntitlements    map[LeaveType]int `json:"leaveEntitlements"` // max days per type per year
	AuditFields
}

// DefaultLeaveEntitlements are applied when no settings row exists yet.
func DefaultLeaveEntitlements() map[LeaveType]int {
	return map[LeaveType]int{
		LeaveAnnual:        24,
		LeaveSick:          12,
		LeaveCompassionate: 5,
		LeaveMaternity:     90,
		LeavePaternity:     10,
		LeaveWithoutPay:    30,
	}
}

// EntitlementFor returns the yearly ceiling for a leave type, falling back to
// the defaults when the settings record has no explicit entry.
func (s SystemSettings) EntitlementFor(t LeaveType) int {
	if days, ok := s.LeaveEntitlements[t]; ok {
		return days
	}
	return DefaultLeaveEntitlements()[t]
}
