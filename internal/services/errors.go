package services

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrMealNotFound = errors.New("meal not found")

	ErrEmailTaken       = errors.New("email already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")

	ErrOldPasswordRequired  = errors.New("old password is required")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
)
