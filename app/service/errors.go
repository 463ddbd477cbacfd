package service

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidStatus  = errors.New("invalid status")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")

	ErrPlanNotFound      = errors.New("plan not found")
	ErrPlanAlreadyExists = errors.New("plan already exists")
	ErrPlanSlugImmutable = errors.New("plan slug is immutable")
	ErrPlanInactive      = errors.New("plan is not available")

	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
	ErrPaymentFailed             = errors.New("payment could not be started")

	ErrToolNotFound         = errors.New("tool not found")
	ErrToolAlreadyExists    = errors.New("tool already exists")
	ErrToolVersionNotFound  = errors.New("tool version not found")
	ErrToolVersionPublished = errors.New("tool version already published")
	ErrToolNotPublished     = errors.New("tool has no published version")
	ErrToolAccessDenied     = errors.New("tool is not available on your plan")
	ErrInvalidToolInput     = errors.New("invalid tool input")
	ErrInvalidSchema        = errors.New("invalid json schema")
	ErrDailyLimitReached    = errors.New("daily limit reached")
	ErrToolExecutionFailed  = errors.New("tool execution failed")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrConfigNotFound       = errors.New("config not found")
)
