package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/internal/pkg/entitlement"
)

const webhookTestSecret = "test-webhook-secret"

type recordedUpdate struct {
	userID uint
	status string
	tier   *string
	ref    *string
}

// webhookTestStore is an in-memory entitlement.Store for endpoint tests
type webhookTestStore struct {
	usersByEmail map[string]*models.User
	usersByRef   map[string]*models.User
	updates      []recordedUpdate
	events       map[string]*models.WebhookEvent
	nextEventID  uint
	failCreate   error
	failUpdate   error
}

func newWebhookTestStore() *webhookTestStore {
	return &webhookTestStore{
		usersByEmail: make(map[string]*models.User),
		usersByRef:   make(map[string]*models.User),
		events:       make(map[string]*models.WebhookEvent),
	}
}

func (s *webhookTestStore) addUser(user *models.User) {
	s.usersByEmail[user.Email] = user
	if user.HelioSubscriptionID != nil {
		s.usersByRef[*user.HelioSubscriptionID] = user
	}
}

func (s *webhookTestStore) GetUserByEmail(email string) (*models.User, error) {
	if u, ok := s.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *webhookTestStore) GetUserBySubscriptionRef(ref string) (*models.User, error) {
	if u, ok := s.usersByRef[ref]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *webhookTestStore) UpdateEntitlement(userID uint, status string, tier *string, ref *string) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	s.updates = append(s.updates, recordedUpdate{userID: userID, status: status, tier: tier, ref: ref})
	return nil
}

func (s *webhookTestStore) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	if s.failCreate != nil {
		return false, nil, s.failCreate
	}
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := s.events[key]; ok {
		return false, existing, nil
	}
	s.nextEventID++
	event.ID = s.nextEventID
	s.events[key] = event
	return true, event, nil
}

func (s *webhookTestStore) ReplaceWebhookEvent(id uint, event *models.WebhookEvent) error {
	for _, existing := range s.events {
		if existing.ID == id {
			existing.EventType = event.EventType
			existing.PayloadJSON = event.PayloadJSON
			existing.SignatureValid = event.SignatureValid
			existing.ProcessedAt = nil
			existing.ProcessingError = ""
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *webhookTestStore) MarkWebhookProcessed(id uint, processingError string) error {
	return nil
}

func newWebhookTestApp(store *webhookTestStore) *fiber.App {
	wc := NewWebhookController(entitlement.NewService(store), webhookTestSecret)
	app := fiber.New()
	app.Post("/api/webhooks/helio", wc.HandleHelioWebhook)
	return app
}

func signWebhookBody(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, eventID, signature string) (*http.Response, fiber.Map) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhooks/helio", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if eventID != "" {
		req.Header.Set("helio-event-id", eventID)
	}
	if signature != "" {
		req.Header.Set("helio-signature", signature)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body fiber.Map
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestHelioWebhookAppliesStartedEvent(t *testing.T) {
	store := newWebhookTestStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com", SubscriptionStatus: models.SubscriptionInactive})
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1","name":"Monthly Membership"}}}`)
	resp, body := postWebhook(t, app, payload, "evt_1", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	require.Len(t, store.updates, 1)
	assert.Equal(t, uint(7), store.updates[0].userID)
	assert.Equal(t, models.SubscriptionActive, store.updates[0].status)
}

func TestHelioWebhookUnknownKindIgnored(t *testing.T) {
	store := newWebhookTestStore()
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.paused","data":{}}`)
	resp, body := postWebhook(t, app, payload, "evt_2", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ignored"])
	assert.Empty(t, store.updates)
}

func TestHelioWebhookDuplicateDeliveryNotReapplied(t *testing.T) {
	store := newWebhookTestStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com"})
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1","name":"Monthly Membership"}}}`)
	sig := signWebhookBody(payload)

	resp, _ := postWebhook(t, app, payload, "evt_3", sig)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := postWebhook(t, app, payload, "evt_3", sig)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["duplicate"])
	assert.Len(t, store.updates, 1)
}

func TestHelioWebhookInvalidSignature(t *testing.T) {
	store := newWebhookTestStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com"})
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1"}}}`)
	resp, body := postWebhook(t, app, payload, "evt_4", "deadbeef")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_signature", body["error"])
	// the delivery is audited but no account is touched
	assert.Empty(t, store.updates)
	stored := store.events[models.PaymentProviderHelio+"/evt_4"]
	require.NotNil(t, stored)
	assert.False(t, stored.SignatureValid)
}

func TestHelioWebhookMalformedPayload(t *testing.T) {
	store := newWebhookTestStore()
	app := newWebhookTestApp(store)

	// valid signature over a payload missing required fields
	payload := []byte(`{"type":"subscription.started","data":{}}`)
	resp, body := postWebhook(t, app, payload, "evt_5", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_payload", body["error"])
	assert.Empty(t, store.updates)
}

func TestHelioWebhookUnknownSubject(t *testing.T) {
	store := newWebhookTestStore()
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"stranger@example.com"},"subscription":{"id":"sub_1"}}}`)
	resp, body := postWebhook(t, app, payload, "evt_6", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "subject_not_found", body["error"])
	assert.Empty(t, store.updates)
}

func TestHelioWebhookPersistFailure(t *testing.T) {
	store := newWebhookTestStore()
	store.failCreate = gorm.ErrInvalidDB
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1"}}}`)
	resp, body := postWebhook(t, app, payload, "evt_7", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "webhook_persist_failed", body["error"])
}

func TestHelioWebhookEntitlementUpdateFailure(t *testing.T) {
	store := newWebhookTestStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com"})
	store.failUpdate = gorm.ErrInvalidDB
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1"}}}`)
	resp, body := postWebhook(t, app, payload, "evt_8", signWebhookBody(payload))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "entitlement_update_failed", body["error"])
}

// A forged, unsigned delivery must not consume the event id: the provider's
// real, signed delivery of the same event has to go through afterwards.
func TestHelioWebhookForgedDeliveryDoesNotBlockVerifiedOne(t *testing.T) {
	store := newWebhookTestStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com", SubscriptionStatus: models.SubscriptionInactive})
	app := newWebhookTestApp(store)

	payload := []byte(`{"type":"subscription.started","data":{"customer":{"email":"fan@example.com"},"subscription":{"id":"sub_1","name":"Monthly Membership"}}}`)

	resp, body := postWebhook(t, app, payload, "evt_9", "forged-signature")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_signature", body["error"])
	assert.Empty(t, store.updates)

	resp, body = postWebhook(t, app, payload, "evt_9", signWebhookBody(payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Nil(t, body["duplicate"])
	require.Len(t, store.updates, 1)
	assert.Equal(t, models.SubscriptionActive, store.updates[0].status)

	// and the redelivery of the verified event is still deduplicated
	resp, body = postWebhook(t, app, payload, "evt_9", signWebhookBody(payload))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["duplicate"])
	assert.Len(t, store.updates, 1)
}
