package entitlement

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/betercalls/BeterCalls/app/models"
)

// Store is the persistence surface the entitlement service needs: account
// lookup by either subject key, one atomic entitlement write, and the
// webhook event audit/dedup table.
type Store interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserBySubscriptionRef(ref string) (*models.User, error)
	UpdateEntitlement(userID uint, status string, tier *string, ref *string) error
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	ReplaceWebhookEvent(id uint, event *models.WebhookEvent) error
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates an entitlement store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserBySubscriptionRef(ref string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("helio_subscription_id = ?", ref).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEntitlement applies status, tier and external ref in one UPDATE so
// the account can never be observed with half of a transition applied.
// A nil tier/ref leaves the stored value untouched; a pointer to the empty
// string clears it.
func (s *gormStore) UpdateEntitlement(userID uint, status string, tier *string, ref *string) error {
	updates := map[string]interface{}{
		"subscription_status": status,
	}
	if tier != nil {
		if *tier == "" {
			updates["subscription_tier"] = nil
		} else {
			updates["subscription_tier"] = *tier
		}
	}
	if ref != nil {
		if *ref == "" {
			updates["helio_subscription_id"] = nil
		} else {
			updates["helio_subscription_id"] = *ref
		}
	}

	tx := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		// The row vanished between lookup and write.
		var count int64
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.New("user disappeared during entitlement update")
		}
	}
	return nil
}

func (s *gormStore) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := s.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

// ReplaceWebhookEvent overwrites the stored delivery for an event id and
// resets its processing state, so the row can go through the state machine
// again.
func (s *gormStore) ReplaceWebhookEvent(id uint, event *models.WebhookEvent) error {
	updates := map[string]interface{}{
		"event_type":       event.EventType,
		"payload_json":     event.PayloadJSON,
		"signature_valid":  event.SignatureValid,
		"processed_at":     nil,
		"processing_error": "",
	}
	return s.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (s *gormStore) MarkWebhookProcessed(id uint, processingError string) error {
	updates := map[string]interface{}{
		"processed_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		"processing_error": processingError,
	}
	return s.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
