package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrCheckoutNotConfigured is returned when the payments secret key or the
// site base URL for redirect targets is missing from the configuration.
var ErrCheckoutNotConfigured = errors.New("checkout is not configured")

// CheckoutCreator creates a hosted checkout session and returns its id.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, priceID, userEmail string) (string, error)
}

// CheckoutService talks to the Stripe checkout sessions API over HTTP.
type CheckoutService struct {
	http        httpDoer
	secretKey   string
	apiBaseURL  string
	siteBaseURL string
}

// NewCheckoutService constructs a CheckoutService. siteBaseURL is the
// externally reachable application URL used to build the post-checkout
// redirect targets.
func NewCheckoutService(secretKey, siteBaseURL string) *CheckoutService {
	return &CheckoutService{
		http:        &http.Client{Timeout: 30 * time.Second},
		secretKey:   strings.TrimSpace(secretKey),
		apiBaseURL:  "https://api.stripe.com/v1",
		siteBaseURL: strings.TrimRight(strings.TrimSpace(siteBaseURL), "/"),
	}
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (s *CheckoutService) SetHTTPClient(client httpDoer) {
	if client == nil {
		s.http = &http.Client{Timeout: 30 * time.Second}
		return
	}
	s.http = client
}

// SetAPIBaseURL overrides the payments API base URL, mainly for tests.
func (s *CheckoutService) SetAPIBaseURL(base string) {
	s.apiBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

type checkoutSessionResponse struct {
	ID    string `json:"id"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession creates a subscription checkout session for the given
// price and customer email.
func (s *CheckoutService) CreateSession(ctx context.Context, priceID, userEmail string) (string, error) {
	if s.secretKey == "" || s.siteBaseURL == "" {
		return "", ErrCheckoutNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", userEmail)
	form.Set("success_url", s.siteBaseURL+"/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", s.siteBaseURL+"/pricing?checkout=cancelled")

	endpoint := s.apiBaseURL + "/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call payments API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read payments response: %w", err)
	}

	var session checkoutSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("decode payments response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		message := strings.TrimSpace(session.Error.Message)
		if message == "" {
			message = resp.Status
		}
		return "", fmt.Errorf("payments API error: %s", message)
	}
	if session.ID == "" {
		return "", fmt.Errorf("payments API returned no session id")
	}
	return session.ID, nil
}
