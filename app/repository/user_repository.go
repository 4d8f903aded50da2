package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByActivationToken retrieves a user by their activation token
func (r *userRepository) GetByActivationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("activation_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBySubscriptionRef retrieves a user by the payment provider's subscription reference
func (r *userRepository) GetBySubscriptionRef(ref string) (*models.User, error) {
	var user models.User
	err := r.db.Where("helio_subscription_id = ?", ref).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// UpdateEntitlement applies subscription status, tier and external ref in a
// single UPDATE. Used by the admin override path; webhook-driven transitions
// go through the entitlement store which carries the same contract.
func (r *userRepository) UpdateEntitlement(userID uint, status string, tier *string, ref *string) error {
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
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountBySubscriptionStatus counts users with the given subscription status
func (r *userRepository) CountBySubscriptionStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("subscription_status = ?", status).Count(&count).Error
	return count, err
}

// Search searches for users by name or email
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern).Find(&users).Error
	return users, err
}
