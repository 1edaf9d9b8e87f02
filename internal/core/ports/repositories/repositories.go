package repositories

// RepositoryProvider groups the concrete repositories handed to the service
// container at startup.
type RepositoryProvider struct {
	RequestRepo  RequestRepositoryFacade
	LeaveRepo    LeaveRepositoryFacade
	UserRepo     UserRepository
	SettingsRepo SettingsRepository
}
