package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betercalls/BeterCalls/app/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HelioClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &HelioClient{
		APIKey:      "sk_test",
		APIBaseURL:  srv.URL,
		RedirectURL: "https://betercalls.com/calls",
		HTTPClient:  srv.Client(),
	}, srv
}

func TestCreateSubscriptionPayLinkUsesStoredPrice(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"payLinkUrl": "https://hel.io/pay/abc"})
	})

	plan := &models.Plan{
		ID:       1,
		Name:     "Monthly Membership",
		Price:    29.99,
		Currency: "USDC",
		Interval: models.PlanIntervalMonthly,
	}

	url, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "https://hel.io/pay/abc", url)
	assert.Equal(t, "/subscribe", gotPath)
	// the amount is the stored plan price, nothing client-supplied
	assert.Equal(t, 29.99, gotBody["amount"])
	assert.Equal(t, "MONTHLY", gotBody["interval"])
	assert.Equal(t, "USDC", gotBody["currency"])
}

func TestCreateSubscriptionPayLinkYearlyInterval(t *testing.T) {
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"payLinkUrl": "https://hel.io/pay/y"})
	})

	plan := &models.Plan{Name: "Yearly Membership", Price: 249, Currency: "USDC", Interval: models.PlanIntervalYearly}

	_, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "YEARLY", gotBody["interval"])
}

func TestLifetimePlanBecomesOneTimePayment(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"payLinkUrl": "https://hel.io/pay/life"})
	})

	plan := &models.Plan{Name: "Lifetime Access", Price: 499, Currency: "USDC", Interval: models.PlanIntervalLifetime}

	url, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "https://hel.io/pay/life", url)
	assert.Equal(t, "/pay", gotPath)
	// one-time payloads carry no interval
	_, hasInterval := gotBody["interval"]
	assert.False(t, hasInterval)
}

func TestCreateSubscriptionPayLinkProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	})

	plan := &models.Plan{Name: "Monthly", Price: 29.99, Currency: "USDC", Interval: models.PlanIntervalMonthly}

	_, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateSubscriptionPayLinkEmptyPayLink(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"payLinkUrl": ""})
	})

	plan := &models.Plan{Name: "Monthly", Price: 29.99, Currency: "USDC", Interval: models.PlanIntervalMonthly}

	_, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateSubscriptionPayLinkMissingAPIKey(t *testing.T) {
	client := &HelioClient{APIBaseURL: "http://localhost:0", HTTPClient: http.DefaultClient}
	plan := &models.Plan{Name: "Monthly", Price: 29.99, Currency: "USDC", Interval: models.PlanIntervalMonthly}

	_, err := client.CreateSubscriptionPayLink(context.Background(), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateSubscriptionPayLinkNilPlan(t *testing.T) {
	client := &HelioClient{APIKey: "sk", HTTPClient: http.DefaultClient}

	_, err := client.CreateSubscriptionPayLink(context.Background(), nil)
	require.Error(t, err)
}
