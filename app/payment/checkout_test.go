package payment

import (
	"context"
	"net/url"
	"testing"
)

func TestCheckoutServiceRedirects(t *testing.T) {
	svc := NewCheckoutService("https://pay.example.com/checkout?src=app")

	result := svc.ProcessSubscriptionPayment(context.Background(), Charge{
		SubscriptionID: 42,
		UserID:         "u-1",
		PlanSlug:       "pro",
		AmountCents:    2999,
		Currency:       "USD",
	})
	if result.Type != ResultTypeRedirect {
		t.Fatalf("expected redirect, got %+v", result)
	}

	u, err := url.Parse(result.PaymentURL)
	if err != nil {
		t.Fatalf("invalid payment url: %v", err)
	}
	q := u.Query()
	if q.Get("subscription_id") != "42" || q.Get("plan") != "pro" || q.Get("amount") != "2999" || q.Get("src") != "app" {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestCheckoutServiceWithoutBaseURL(t *testing.T) {
	result := NewCheckoutService("").ProcessSubscriptionPayment(context.Background(), Charge{SubscriptionID: 1})
	if result.Type != ResultTypeFailure {
		t.Fatalf("expected failure, got %+v", result)
	}
}
