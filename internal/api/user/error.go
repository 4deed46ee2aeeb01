package user

import "ExpenseTracker/pkg/response"

var (
	ErrUserNotFound      = response.NewError(404, "user not found")
	ErrEmailAlreadyInUse = response.NewError(409, "email already in use")
	ErrUpdateUser        = response.NewError(500, "failed to update user")
)
