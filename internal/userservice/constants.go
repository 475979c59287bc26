package userservice

const (
	// Error messages for user service operations
	ErrFailedToRegisterUser = "failed to register user"
	ErrRetrievingUser       = "error retrieving user"
	ErrListingUsers         = "error listing users"
)
