package payment

import "context"

type ResultType string

const (
	ResultTypeSuccess  ResultType = "success"
	ResultTypeRedirect ResultType = "redirect"
	ResultTypeFailure  ResultType = "failure"
)

type Result struct {
	Type          ResultType
	TransactionID string
	PaymentURL    string
	Error         string
}

// Charge describes the first payment of a paid subscription.
type Charge struct {
	SubscriptionID uint64
	UserID         string
	PlanSlug       string
	AmountCents    int64
	Currency       string
}

type Service interface {
	ProcessSubscriptionPayment(ctx context.Context, charge Charge) Result
}
