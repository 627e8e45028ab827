package auth

import "errors"

var (
	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrUserNameExists is returned when attempting to register a username that already exists in the tenant.
	ErrUserNameExists = errors.New("user with this username already exists")

	// ErrUserNotApproved is returned when attempting to authenticate an account still pending approval.
	ErrUserNotApproved = errors.New("user account is pending approval")

	// ErrUserAccountDisabled is returned when attempting to authenticate a rejected or suspended account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")
)
