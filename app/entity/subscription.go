package entity

import "time"

const (
	SubscriptionStatusInactive       int32 = 0
	SubscriptionStatusProcessing     int32 = 1
	SubscriptionStatusPendingPayment int32 = 2
	SubscriptionStatusActive         int32 = 10
)

type Subscription struct {
	ID                 uint64
	UserID             string
	PlanID             uint64
	Status             int32
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	CancelAtPeriodEnd  bool
	TransactionID      *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
