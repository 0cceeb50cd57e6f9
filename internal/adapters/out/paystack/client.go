// Package paystack implements the payment processor gateway against the
// Paystack REST API: checkout initialization, charge verification, and
// transfers for released escrow funds. Every failure is wrapped as an
// external-service error so handlers never mistake a processor outage for a
// domain rejection.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

const serviceName = "paystack"

// Client talks to the Paystack API over HTTPS.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a Paystack client. The secret key authenticates every
// request.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
	} `json:"data"`
	Message string `json:"message"`
}

// Initialize opens a checkout session and returns the authorization URL the
// customer completes payment on. The order number doubles as the charge
// reference.
func (c *Client) Initialize(
	ctx context.Context,
	reference, email string,
	amount kernel.Money,
) (string, error) {
	payload := initializeRequest{
		Email:     email,
		Amount:    amount.Cents(),
		Reference: reference,
	}

	var response initializeResponse
	if err := c.post(ctx, "/transaction/initialize", payload, &response); err != nil {
		return "", err
	}
	if !response.Status {
		return "", errs.NewExternalServiceError(serviceName,
			fmt.Errorf("initialize rejected: %s", response.Message))
	}

	return response.Data.AuthorizationURL, nil
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	} `json:"data"`
	Message string `json:"message"`
}

// Verify checks the referenced charge and returns the settled amount. A
// charge that exists but did not succeed is an external-service error; the
// caller decides whether to retry.
func (c *Client) Verify(ctx context.Context, reference string) (kernel.Money, error) {
	var response verifyResponse
	if err := c.get(ctx, "/transaction/verify/"+reference, &response); err != nil {
		return kernel.Money{}, err
	}
	if !response.Status {
		return kernel.Money{}, errs.NewExternalServiceError(serviceName,
			fmt.Errorf("verify rejected: %s", response.Message))
	}
	if response.Data.Status != "success" {
		return kernel.Money{}, errs.NewExternalServiceError(serviceName,
			fmt.Errorf("charge %s is %s, not settled", reference, response.Data.Status))
	}

	settled, err := kernel.NewMoneyFromCents(response.Data.Amount)
	if err != nil {
		return kernel.Money{}, errs.NewExternalServiceError(serviceName, err)
	}
	return settled, nil
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

type transferResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Payout transfers released funds to the payee's settlement account. The
// payee id is the transfer recipient registered with the processor during
// onboarding.
func (c *Client) Payout(
	ctx context.Context,
	payeeID kernel.UUID,
	amount kernel.Money,
	reason string,
) error {
	payload := transferRequest{
		Source:    "balance",
		Amount:    amount.Cents(),
		Recipient: payeeID.String(),
		Reason:    reason,
	}

	var response transferResponse
	if err := c.post(ctx, "/transfer", payload, &response); err != nil {
		return err
	}
	if !response.Status {
		return errs.NewExternalServiceError(serviceName,
			fmt.Errorf("transfer rejected: %s", response.Message))
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewExternalServiceError(serviceName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errs.NewExternalServiceError(serviceName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errs.NewExternalServiceError(serviceName, err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return errs.NewExternalServiceError(serviceName,
			fmt.Errorf("%s %s returned %d", req.Method, req.URL.Path, resp.StatusCode))
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.NewExternalServiceError(serviceName, err)
	}
	return nil
}
