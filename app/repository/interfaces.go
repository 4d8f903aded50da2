package repository

import (
	"github.com/betercalls/BeterCalls/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetBySubscriptionRef(ref string) (*models.User, error)
	Update(user *models.User) error
	UpdateEntitlement(userID uint, status string, tier *string, ref *string) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	CountBySubscriptionStatus(status string) (int64, error)
	Search(query string) ([]models.User, error)
}

// PlanRepository defines the interface for subscription plan operations
type PlanRepository interface {
	Create(plan *models.Plan) error
	GetByID(id uint) (*models.Plan, error)
	GetActiveByID(id uint) (*models.Plan, error)
	GetActive() ([]models.Plan, error)
	GetAll() ([]models.Plan, error)
	Update(plan *models.Plan) error
	Delete(id uint) error
}

// ExpertRepository defines the interface for expert operations
type ExpertRepository interface {
	Create(expert *models.Expert) error
	GetByID(id uint) (*models.Expert, error)
	GetAll() ([]models.Expert, error)
	Update(expert *models.Expert) error
	Delete(id uint) error
}

// CallRepository defines the interface for call operations
type CallRepository interface {
	Create(call *models.Call) error
	GetByID(id uint) (*models.Call, error)
	GetByUUID(uuid string) (*models.Call, error)
	List(offset, limit int) ([]models.Call, error)
	ListByExpert(expertID uint, offset, limit int) ([]models.Call, error)
	Update(call *models.Call) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	Count() (int64, error)
}

// DiscussionRepository defines the interface for call comments
type DiscussionRepository interface {
	Create(comment *models.Discussion) error
	ListByCall(callID uint) ([]models.Discussion, error)
	Delete(id uint) error
	CountByCall(callID uint) (int64, error)
}
