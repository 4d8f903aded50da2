package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventSubscriptionStarted(t *testing.T) {
	raw := []byte(`{
		"type": "subscription.started",
		"data": {
			"customer": {"email": "fan@example.com"},
			"subscription": {"id": "sub_123", "name": "Monthly Membership"}
		}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, EventSubscriptionStarted, ev.Kind)
	assert.Equal(t, "fan@example.com", ev.CustomerEmail)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
	assert.Equal(t, "Monthly Membership", ev.SubscriptionName)
}

func TestParseEventPaymentSucceeded(t *testing.T) {
	raw := []byte(`{
		"type": "payment.succeeded",
		"data": {
			"customer": {"email": "whale@example.com"},
			"payment": {"id": "pay_42"}
		}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, ev.Kind)
	assert.Equal(t, "pay_42", ev.PaymentID)
}

func TestParseEventCancelledNeedsOnlySubscriptionID(t *testing.T) {
	raw := []byte(`{
		"type": "subscription.cancelled",
		"data": {"subscription": {"id": "sub_123"}}
	}`)

	ev, err := ParseEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
	assert.Empty(t, ev.CustomerEmail)
}

func TestParseEventMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"started without email":   `{"type":"subscription.started","data":{"subscription":{"id":"sub_1"}}}`,
		"started without sub id":  `{"type":"subscription.started","data":{"customer":{"email":"a@b.c"}}}`,
		"payment without pay id":  `{"type":"payment.succeeded","data":{"customer":{"email":"a@b.c"}}}`,
		"cancelled without ref":   `{"type":"subscription.cancelled","data":{}}`,
		"missing type altogether": `{"data":{}}`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEvent([]byte(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestParseEventInvalidJSON(t *testing.T) {
	_, err := ParseEvent([]byte(`{not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseEventUnknownKindPasses(t *testing.T) {
	// Unknown kinds parse fine; the state machine ignores them later.
	ev, err := ParseEvent([]byte(`{"type":"subscription.paused","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, "subscription.paused", ev.Kind)
	assert.False(t, KnownEventKind(ev.Kind))
}

func TestKnownEventKind(t *testing.T) {
	assert.True(t, KnownEventKind(EventSubscriptionStarted))
	assert.True(t, KnownEventKind(EventSubscriptionRenewed))
	assert.True(t, KnownEventKind(EventSubscriptionCancelled))
	assert.True(t, KnownEventKind(EventPaymentSucceeded))
	assert.False(t, KnownEventKind("payment.failed"))
	assert.False(t, KnownEventKind(""))
}
