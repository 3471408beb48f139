package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Workflow entity errors
	ErrIntakeNotFound       = errors.New("security intake not found")
	ErrItemNotFound         = errors.New("found item not found")
	ErrReportNotFound       = errors.New("lost report not found")
	ErrClaimNotFound        = errors.New("claim not found")
	ErrVerificationNotFound = errors.New("verification request not found")
	ErrReceiptNotFound      = errors.New("return receipt not found")

	// Workflow state errors
	ErrClaimAlreadyDecided   = errors.New("claim already decided")
	ErrVerificationCompleted = errors.New("verification request already completed")
	ErrItemNotClaimable      = errors.New("item is not claimable")
	ErrActiveClaimExists     = errors.New("item already has an active claim")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
