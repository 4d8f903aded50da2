package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/internal/pkg/env"
)

const defaultHelioAPIBaseURL = "https://api.hel.io/v1"

// ErrProvider marks failures talking to the payment provider: transport
// errors, non-2xx responses and malformed response bodies all wrap it so
// callers can map them to a single user-facing outcome.
var ErrProvider = errors.New("payment provider error")

// HelioClient talks to the Helio pay-link API. Helio quotes in a base
// currency (USDC) and lets the payer settle in other tokens; that conversion
// is entirely on Helio's side, we only ever submit the stored plan price.
type HelioClient struct {
	APIKey      string
	APIBaseURL  string
	RedirectURL string

	HTTPClient *http.Client
}

type payLinkResponse struct {
	PayLinkURL string `json:"payLinkUrl"`
}

func NewHelioClientFromEnv() *HelioClient {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	redirect := strings.TrimSpace(env.GetEnv("HELIO_REDIRECT_URL", ""))
	if redirect == "" && base != "" {
		redirect = base + "/calls"
	}

	return &HelioClient{
		APIKey:      strings.TrimSpace(env.GetEnv("HELIO_SECRET_KEY", "")),
		APIBaseURL:  strings.TrimRight(env.GetEnv("HELIO_API_BASE_URL", defaultHelioAPIBaseURL), "/"),
		RedirectURL: redirect,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSubscriptionPayLink requests a hosted payment page for the given
// plan and returns its URL. Lifetime plans become a one-time payment link,
// everything else a recurring one. The amount always comes from the Plan row
// passed in; there is no parameter for a client-supplied price on purpose.
func (c *HelioClient) CreateSubscriptionPayLink(ctx context.Context, plan *models.Plan) (string, error) {
	if plan == nil {
		return "", errors.New("plan is required")
	}
	if !plan.IsRecurring() {
		return c.createOneTimePayLink(ctx, plan)
	}

	interval := "MONTHLY"
	if plan.Interval == models.PlanIntervalYearly {
		interval = "YEARLY"
	}

	payload := map[string]interface{}{
		"name":     fmt.Sprintf("%s Subscription", plan.Name),
		"amount":   plan.Price,
		"interval": interval,
		"currency": plan.Currency,
		"product": map[string]string{
			"name":        fmt.Sprintf("BeterCalls - %s", plan.Name),
			"description": fmt.Sprintf("Access to all %s features on BeterCalls.", plan.Name),
		},
		"customerDetails": map[string]bool{
			"email": true,
			"name":  true,
		},
		"redirectUrl": c.RedirectURL,
	}

	return c.post(ctx, "/subscribe", payload)
}

func (c *HelioClient) createOneTimePayLink(ctx context.Context, plan *models.Plan) (string, error) {
	payload := map[string]interface{}{
		"name":     fmt.Sprintf("%s - One Time Payment", plan.Name),
		"amount":   plan.Price,
		"currency": plan.Currency,
		"product": map[string]string{
			"name":        fmt.Sprintf("BeterCalls - %s", plan.Name),
			"description": fmt.Sprintf("Lifetime access to all %s features on BeterCalls.", plan.Name),
		},
		"customerDetails": map[string]bool{
			"email": true,
			"name":  true,
		},
		"redirectUrl": c.RedirectURL,
	}

	return c.post(ctx, "/pay", payload)
}

func (c *HelioClient) post(ctx context.Context, endpoint string, payload interface{}) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: HELIO_SECRET_KEY is not configured", ErrProvider)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status=%d body=%s", ErrProvider, resp.StatusCode, string(respBody))
	}

	var out payLinkResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: invalid response: %v", ErrProvider, err)
	}
	if strings.TrimSpace(out.PayLinkURL) == "" {
		return "", fmt.Errorf("%w: response did not contain a pay link url", ErrProvider)
	}
	return out.PayLinkURL, nil
}
