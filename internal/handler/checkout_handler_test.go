package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/lifehub/internal/service"
)

func TestCheckoutRejectsMissingFields(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	w := env.client.postJSON("/api/create-checkout-session", map[string]any{
		"priceId":   "",
		"userEmail": "a@b.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] == "" {
		t.Fatal("expected an error field in the response")
	}
	if env.checkout.calls != 0 {
		t.Fatal("expected no provider call for an invalid payload")
	}
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	w := env.client.do(http.MethodPost, "/api/create-checkout-session", nil, "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckoutReportsMissingConfiguration(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	env.checkout.err = service.ErrCheckoutNotConfigured

	w := env.client.postJSON("/api/create-checkout-session", map[string]any{
		"priceId":   "price_123",
		"userEmail": "a@b.com",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] == "" {
		t.Fatal("expected an error field in the response")
	}
}

func TestCheckoutReportsProviderFailure(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	env.checkout.err = errors.New("upstream exploded")

	w := env.client.postJSON("/api/create-checkout-session", map[string]any{
		"priceId":   "price_123",
		"userEmail": "a@b.com",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckoutReturnsSessionID(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	w := env.client.postJSON("/api/create-checkout-session", map[string]any{
		"priceId":   "price_123",
		"userEmail": "a@b.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	decodeBody(t, w, &body)
	if body["sessionId"] != "cs_test_1" {
		t.Fatalf("unexpected session id %q", body["sessionId"])
	}
	if env.checkout.lastPriceID != "price_123" || env.checkout.lastEmail != "a@b.com" {
		t.Fatalf("provider called with %q %q", env.checkout.lastPriceID, env.checkout.lastEmail)
	}
}

func TestCheckoutWorksWithoutSession(t *testing.T) {
	env, cleanup := newTestEnv(t)
	defer cleanup()

	// The pricing page is public, so checkout must not require sign-in.
	w := env.client.postJSON("/api/create-checkout-session", map[string]any{
		"priceId":   "price_123",
		"userEmail": "visitor@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without a session, got %d: %s", w.Code, w.Body.String())
	}
}
