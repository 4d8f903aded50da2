package entitlement

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event kinds delivered by the payment provider.
const (
	EventSubscriptionStarted   = "subscription.started"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventPaymentSucceeded      = "payment.succeeded"
)

// Event is the normalized view of an inbound webhook notification. It is
// transient: parsed, applied, and discarded. The raw payload is persisted
// separately for audit and deduplication.
type Event struct {
	Kind             string
	CustomerEmail    string
	SubscriptionID   string
	SubscriptionName string
	PaymentID        string
}

type eventEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Customer *struct {
			Email string `json:"email"`
		} `json:"customer"`
		Subscription *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"subscription"`
		Payment *struct {
			ID string `json:"id"`
		} `json:"payment"`
	} `json:"data"`
}

// KnownEventKind reports whether kind is one the state machine handles.
// Unknown kinds are still parsed and then ignored for forward compatibility.
func KnownEventKind(kind string) bool {
	switch kind {
	case EventSubscriptionStarted, EventSubscriptionRenewed, EventSubscriptionCancelled, EventPaymentSucceeded:
		return true
	default:
		return false
	}
}

// ParseEvent decodes a provider webhook body into a normalized Event and
// validates that the fields required by the event kind are present.
func ParseEvent(raw []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	ev := Event{Kind: strings.TrimSpace(env.Type)}
	if ev.Kind == "" {
		return Event{}, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}
	if env.Data.Customer != nil {
		ev.CustomerEmail = strings.TrimSpace(env.Data.Customer.Email)
	}
	if env.Data.Subscription != nil {
		ev.SubscriptionID = strings.TrimSpace(env.Data.Subscription.ID)
		ev.SubscriptionName = strings.TrimSpace(env.Data.Subscription.Name)
	}
	if env.Data.Payment != nil {
		ev.PaymentID = strings.TrimSpace(env.Data.Payment.ID)
	}

	switch ev.Kind {
	case EventSubscriptionStarted, EventSubscriptionRenewed:
		if ev.CustomerEmail == "" || ev.SubscriptionID == "" {
			return Event{}, fmt.Errorf("%w: %s requires customer email and subscription id", ErrMalformedPayload, ev.Kind)
		}
	case EventPaymentSucceeded:
		if ev.CustomerEmail == "" || ev.PaymentID == "" {
			return Event{}, fmt.Errorf("%w: %s requires customer email and payment id", ErrMalformedPayload, ev.Kind)
		}
	case EventSubscriptionCancelled:
		if ev.SubscriptionID == "" {
			return Event{}, fmt.Errorf("%w: %s requires subscription id", ErrMalformedPayload, ev.Kind)
		}
	}

	return ev, nil
}
