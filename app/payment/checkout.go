package payment

import (
	"context"
	"net/url"
	"strconv"
)

// CheckoutService never charges anything itself. It sends the user to a hosted
// checkout page; the outcome arrives later through the payment callback.
type CheckoutService struct {
	baseURL string
}

func NewCheckoutService(baseURL string) *CheckoutService {
	return &CheckoutService{baseURL: baseURL}
}

func (s *CheckoutService) ProcessSubscriptionPayment(_ context.Context, charge Charge) Result {
	u, err := url.Parse(s.baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Result{Type: ResultTypeFailure, Error: "checkout url is not configured"}
	}

	q := u.Query()
	q.Set("subscription_id", strconv.FormatUint(charge.SubscriptionID, 10))
	q.Set("plan", charge.PlanSlug)
	q.Set("amount", strconv.FormatInt(charge.AmountCents, 10))
	q.Set("currency", charge.Currency)
	u.RawQuery = q.Encode()

	return Result{Type: ResultTypeRedirect, PaymentURL: u.String()}
}
