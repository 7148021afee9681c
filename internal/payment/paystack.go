// Package payment wraps the Paystack transaction API. Amounts are int64
// pesewas, which is also Paystack's subunit for GHS.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

var ErrUnavailable = errors.New("payment provider unavailable")

type Client struct {
	http        *resty.Client
	breaker     *gobreaker.CircuitBreaker
	callbackURL string
	logger      *log.Logger
}

func NewClient(baseURL, secretKey, callbackURL string, logger *log.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "paystack",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{http: httpClient, breaker: breaker, callbackURL: callbackURL, logger: logger}
}

type InitializeInput struct {
	Email       string
	AmountCents int64
	Reference   string
}

type Authorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize starts a hosted checkout transaction and returns the URL the
// shopper is redirected to.
func (c *Client) Initialize(ctx context.Context, in InitializeInput) (*Authorization, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out initializeResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(initializeRequest{
				Email:       in.Email,
				Amount:      in.AmountCents,
				Currency:    "GHS",
				Reference:   in.Reference,
				CallbackURL: c.callbackURL,
			}).
			SetResult(&out).
			Post("/transaction/initialize")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("paystack initialize: status %d", resp.StatusCode())
		}
		if !out.Status {
			return nil, fmt.Errorf("paystack initialize: %s", out.Message)
		}
		return &Authorization{
			AuthorizationURL: out.Data.AuthorizationURL,
			AccessCode:       out.Data.AccessCode,
			Reference:        out.Data.Reference,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return result.(*Authorization), nil
}

type VerifyResult struct {
	Reference   string
	Status      string
	AmountCents int64
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	} `json:"data"`
}

// Verify looks up a transaction by reference. Paid transactions report
// status "success".
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out verifyResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			Get("/transaction/verify/" + reference)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("paystack verify: status %d", resp.StatusCode())
		}
		if !out.Status {
			return nil, fmt.Errorf("paystack verify: %s", out.Message)
		}
		return &VerifyResult{
			Reference:   out.Data.Reference,
			Status:      out.Data.Status,
			AmountCents: out.Data.Amount,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	return result.(*VerifyResult), nil
}
