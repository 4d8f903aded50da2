package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

type entitlementUpdate struct {
	userID uint
	status string
	tier   *string
	ref    *string
}

// fakeStore is an in-memory Store for state machine tests
type fakeStore struct {
	usersByEmail map[string]*models.User
	usersByRef   map[string]*models.User
	updates      []entitlementUpdate
	events       map[string]*models.WebhookEvent
	nextEventID  uint
	failUpdate   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersByEmail: make(map[string]*models.User),
		usersByRef:   make(map[string]*models.User),
		events:       make(map[string]*models.WebhookEvent),
	}
}

func (f *fakeStore) addUser(user *models.User) {
	f.usersByEmail[user.Email] = user
	if user.HelioSubscriptionID != nil {
		f.usersByRef[*user.HelioSubscriptionID] = user
	}
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	if u, ok := f.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetUserBySubscriptionRef(ref string) (*models.User, error) {
	if u, ok := f.usersByRef[ref]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpdateEntitlement(userID uint, status string, tier *string, ref *string) error {
	if f.failUpdate != nil {
		return f.failUpdate
	}
	f.updates = append(f.updates, entitlementUpdate{userID: userID, status: status, tier: tier, ref: ref})
	return nil
}

func (f *fakeStore) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		return false, existing, nil
	}
	f.nextEventID++
	event.ID = f.nextEventID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeStore) ReplaceWebhookEvent(id uint, event *models.WebhookEvent) error {
	for _, existing := range f.events {
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

func (f *fakeStore) MarkWebhookProcessed(id uint, processingError string) error {
	return nil
}

func TestApplySubscriptionStartedActivatesAccount(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 7, Email: "fan@example.com", SubscriptionStatus: models.SubscriptionInactive})
	svc := NewService(store)

	outcome, err := svc.Apply(context.Background(), Event{
		Kind:             EventSubscriptionStarted,
		CustomerEmail:    "fan@example.com",
		SubscriptionID:   "sub_123",
		SubscriptionName: "Monthly Membership",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, store.updates, 1)
	up := store.updates[0]
	assert.Equal(t, uint(7), up.userID)
	assert.Equal(t, models.SubscriptionActive, up.status)
	require.NotNil(t, up.tier)
	assert.Equal(t, models.TierMonthly, *up.tier)
	require.NotNil(t, up.ref)
	assert.Equal(t, "sub_123", *up.ref)
}

func TestApplyRenewalRefreshesTier(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 3, Email: "fan@example.com", SubscriptionStatus: models.SubscriptionActive})
	svc := NewService(store)

	outcome, err := svc.Apply(context.Background(), Event{
		Kind:             EventSubscriptionRenewed,
		CustomerEmail:    "fan@example.com",
		SubscriptionID:   "sub_123",
		SubscriptionName: "Yearly Membership",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, store.updates, 1)
	require.NotNil(t, store.updates[0].tier)
	assert.Equal(t, models.TierYearly, *store.updates[0].tier)
}

func TestApplyPaymentSucceededGrantsLifetime(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 9, Email: "whale@example.com", SubscriptionStatus: models.SubscriptionInactive})
	svc := NewService(store)

	outcome, err := svc.Apply(context.Background(), Event{
		Kind:          EventPaymentSucceeded,
		CustomerEmail: "whale@example.com",
		PaymentID:     "pay_42",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, store.updates, 1)
	up := store.updates[0]
	assert.Equal(t, models.SubscriptionActive, up.status)
	require.NotNil(t, up.tier)
	assert.Equal(t, models.TierLifetime, *up.tier)
	require.NotNil(t, up.ref)
	assert.Equal(t, "pay_42", *up.ref)
}

func TestApplyCancellationMatchesByRefOnly(t *testing.T) {
	ref := "sub_abc"
	store := newFakeStore()
	store.addUser(&models.User{ID: 1, Email: "a@example.com", SubscriptionStatus: models.SubscriptionActive, HelioSubscriptionID: &ref})
	store.addUser(&models.User{ID: 2, Email: "b@example.com", SubscriptionStatus: models.SubscriptionActive})
	svc := NewService(store)

	outcome, err := svc.Apply(context.Background(), Event{
		Kind:           EventSubscriptionCancelled,
		SubscriptionID: ref,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	// only the account holding the ref is touched
	require.Len(t, store.updates, 1)
	assert.Equal(t, uint(1), store.updates[0].userID)
	assert.Equal(t, models.SubscriptionCancelled, store.updates[0].status)
	// cancellation does not overwrite tier or ref
	assert.Nil(t, store.updates[0].tier)
	assert.Nil(t, store.updates[0].ref)
}

func TestApplyCancellationUnknownRef(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Apply(context.Background(), Event{
		Kind:           EventSubscriptionCancelled,
		SubscriptionID: "sub_nobody",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
	assert.Empty(t, store.updates)
}

func TestApplyUnknownEmailNeverCreatesAccount(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Apply(context.Background(), Event{
		Kind:           EventSubscriptionStarted,
		CustomerEmail:  "stranger@example.com",
		SubscriptionID: "sub_1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubjectNotFound)
	assert.Empty(t, store.usersByEmail["stranger@example.com"])
	assert.Empty(t, store.updates)
}

func TestApplyUnknownKindIsIgnored(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 5, Email: "fan@example.com"})
	svc := NewService(store)

	outcome, err := svc.Apply(context.Background(), Event{
		Kind:          "subscription.paused",
		CustomerEmail: "fan@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Empty(t, store.updates)
}

func TestApplyStorageFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	store.addUser(&models.User{ID: 4, Email: "fan@example.com"})
	store.failUpdate = errors.New("connection lost")
	svc := NewService(store)

	_, err := svc.Apply(context.Background(), Event{
		Kind:           EventSubscriptionStarted,
		CustomerEmail:  "fan@example.com",
		SubscriptionID: "sub_9",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSubjectNotFound)
}

func TestRecordEventDeduplicates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	payload := []byte(`{"type":"subscription.started"}`)

	created, first, err := svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", payload, true)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first)

	created, second, err := svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", payload, true)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecordEventHashFallback(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	payload := []byte(`{"type":"subscription.renewed"}`)

	created, first, err := svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "", "subscription.renewed", payload, true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Contains(t, first.ProviderEventID, "hash:")

	// verbatim redelivery without an event id still collapses
	created, _, err = svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "", "subscription.renewed", payload, true)
	require.NoError(t, err)
	assert.False(t, created)

	// a different payload is a new event
	created, _, err = svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "", "subscription.renewed", []byte(`{"type":"subscription.renewed","data":{}}`), true)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestRecordEventVerifiedDeliveryReclaimsUnverifiedRow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	forged := []byte(`{"type":"subscription.started","data":{"customerEmail":"attacker@example.com"}}`)
	legit := []byte(`{"type":"subscription.started","data":{"customerEmail":"fan@example.com"}}`)

	// an unsigned POST must not be able to consume the event id
	created, _, err := svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", forged, false)
	require.NoError(t, err)
	assert.True(t, created)

	created, stored, err := svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", legit, true)
	require.NoError(t, err)
	assert.True(t, created, "verified delivery must not be treated as a duplicate of an unverified one")
	assert.True(t, stored.SignatureValid)
	assert.Equal(t, string(legit), stored.PayloadJSON)
	assert.Nil(t, stored.ProcessedAt)

	// once a verified row holds the id, redeliveries collapse as usual
	created, _, err = svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", legit, true)
	require.NoError(t, err)
	assert.False(t, created)

	// and a later unverified POST cannot reclaim it back
	created, _, err = svc.RecordEvent(context.Background(), models.PaymentProviderHelio, "evt_1", "subscription.started", forged, false)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRecordEventRequiresProvider(t *testing.T) {
	svc := NewService(newFakeStore())

	_, _, err := svc.RecordEvent(context.Background(), "", "evt_1", "x", nil, true)
	require.Error(t, err)
}
