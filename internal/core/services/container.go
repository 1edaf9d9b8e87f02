package services

import (
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
)

// NewContainer wires all application services against the given repository
// provider and notification dispatcher.
func NewContainer(repos *portsrepo.RepositoryProvider, notifier portssvc.NotificationDispatcher) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo)
	settingsSvc := NewSettingsService(repos.SettingsRepo, repos.UserRepo)
	requestSvc := NewRequestService(repos.RequestRepo, userSvc, notifier)
	leaveSvc := NewLeaveService(repos.LeaveRepo, userSvc, settingsSvc, notifier)

	return &portssvc.ServiceContainer{
		User:     userSvc,
		Request:  requestSvc,
		Leave:    leaveSvc,
		Settings: settingsSvc,
	}
}
