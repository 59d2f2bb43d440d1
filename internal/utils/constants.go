package utils

import "time"

// Application Constants
const (
	AppName    = "CrimeWatch"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128
	ResetTokenLength   = 32
	ResetTokenExpiry   = time.Hour

	// Report Constants
	TitleMinLength       = 5
	TitleMaxLength       = 200
	DescriptionMinLength = 10
	DescriptionMaxLength = 1000
	FIRNumberMinLength   = 3
	FIRNumberMaxLength   = 50

	// Notification
	NotificationMaxAttempts = 3
	NotificationRetryBase   = 5 * time.Second
	NotificationSendSpacing = 100 * time.Millisecond
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists"
	ErrReportNotFound     = "crime report not found"
	ErrInvalidToken       = "invalid token"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrAccessDenied       = "access denied"

	ErrInvalidRequestBody = "invalid request body"
	ErrInvalidQueryParams = "invalid query parameters"
	ErrInvalidReportID    = "invalid report id"
	ErrInvalidUserID      = "invalid user id"
)

// Cache Keys
const (
	CacheUserPrefix      = "user:"
	CacheUserEmailPrefix = "user_email:"
	CacheUserTTL         = 15 * time.Minute
)

// AnonymousReporter replaces the reporter reference in API responses for
// anonymous reports.
const AnonymousReporter = "Anonymous"
