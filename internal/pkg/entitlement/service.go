package entitlement

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

// Outcome describes what Apply did with an event.
type Outcome string

const (
	// OutcomeApplied means the state machine performed a transition.
	OutcomeApplied Outcome = "applied"
	// OutcomeIgnored means the event kind is unknown and was accepted
	// without touching any account (forward compatibility).
	OutcomeIgnored Outcome = "ignored"
)

// Service applies payment-provider events to account entitlement.
//
// Transition table (per account):
//
//	inactive/cancelled --started|payment.succeeded--> active
//	active             --renewed-->                   active (tier refresh)
//	any                --cancelled-->                 cancelled (by external ref)
//
// Deliveries are deduplicated via RecordEvent before Apply is called; no
// ordering is assumed between concurrent deliveries, each transition is a
// single-row write and the last one wins.
type Service struct {
	store Store
}

// NewService creates an entitlement service from an injected store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewServiceFromDB creates an entitlement service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewStore(db))
}

// Apply runs one normalized event through the state machine.
// It never creates accounts: an unresolvable subject is ErrSubjectNotFound.
func (s *Service) Apply(ctx context.Context, ev Event) (Outcome, error) {
	_ = ctx

	switch ev.Kind {
	case EventSubscriptionStarted, EventSubscriptionRenewed:
		user, err := s.userByEmail(ev.CustomerEmail)
		if err != nil {
			return "", err
		}
		tier := models.TierForPlanName(ev.SubscriptionName)
		ref := ev.SubscriptionID
		if err := s.store.UpdateEntitlement(user.ID, models.SubscriptionActive, &tier, &ref); err != nil {
			return "", fmt.Errorf("entitlement update failed: %w", err)
		}
		return OutcomeApplied, nil

	case EventPaymentSucceeded:
		// One-time payment for a lifetime plan; the payment id doubles as
		// the external ref since there is no subscription object.
		user, err := s.userByEmail(ev.CustomerEmail)
		if err != nil {
			return "", err
		}
		tier := models.TierLifetime
		ref := ev.PaymentID
		if err := s.store.UpdateEntitlement(user.ID, models.SubscriptionActive, &tier, &ref); err != nil {
			return "", fmt.Errorf("entitlement update failed: %w", err)
		}
		return OutcomeApplied, nil

	case EventSubscriptionCancelled:
		// Cancellation events carry only the provider's subscription id.
		user, err := s.store.GetUserBySubscriptionRef(ev.SubscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("%w: no account for subscription %s", ErrSubjectNotFound, ev.SubscriptionID)
			}
			return "", fmt.Errorf("account lookup failed: %w", err)
		}
		if err := s.store.UpdateEntitlement(user.ID, models.SubscriptionCancelled, nil, nil); err != nil {
			return "", fmt.Errorf("entitlement update failed: %w", err)
		}
		return OutcomeApplied, nil

	default:
		return OutcomeIgnored, nil
	}
}

func (s *Service) userByEmail(email string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no account for email %s", ErrSubjectNotFound, email)
		}
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	return user, nil
}

// RecordEvent persists a webhook delivery idempotently. When the provider
// sends no event id the payload hash stands in, so verbatim redeliveries
// still collapse into one row. Returns created=false for duplicates.
//
// Only a signature-verified row counts as the delivery of record: the event
// id header is caller-supplied, so an unverified POST must not be able to
// occupy the (provider, event id) slot and get the provider's real delivery
// answered as a duplicate. When the stored row failed verification and this
// delivery verifies, the row is taken over and returned as newly created.
func (s *Service) RecordEvent(ctx context.Context, provider, eventID, eventType string, payload []byte, signatureValid bool) (bool, *models.WebhookEvent, error) {
	_ = ctx
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return false, nil, errors.New("provider is required")
	}
	id := strings.TrimSpace(eventID)
	if id == "" {
		sum := sha256.Sum256(payload)
		id = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        p,
		ProviderEventID: id,
		EventType:       strings.TrimSpace(eventType),
		PayloadJSON:     string(payload),
		SignatureValid:  signatureValid,
	}
	created, stored, err := s.store.CreateWebhookEventIfNotExists(event)
	if err != nil || created {
		return created, stored, err
	}

	if signatureValid && !stored.SignatureValid {
		if err := s.store.ReplaceWebhookEvent(stored.ID, event); err != nil {
			return false, nil, fmt.Errorf("webhook event takeover failed: %w", err)
		}
		stored.EventType = event.EventType
		stored.PayloadJSON = event.PayloadJSON
		stored.SignatureValid = true
		stored.ProcessedAt = nil
		stored.ProcessingError = ""
		return true, stored, nil
	}
	return false, stored, nil
}

// MarkProcessed marks a recorded event as handled and stores an optional error.
func (s *Service) MarkProcessed(ctx context.Context, eventID uint, processingErr error) error {
	_ = ctx
	if eventID == 0 {
		return errors.New("webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.store.MarkWebhookProcessed(eventID, errMsg)
}
