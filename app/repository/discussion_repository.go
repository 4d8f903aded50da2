package repository

import (
	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

// discussionRepository implements the DiscussionRepository interface
type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository creates a new discussion repository instance
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(comment *models.Discussion) error {
	return r.db.Create(comment).Error
}

func (r *discussionRepository) ListByCall(callID uint) ([]models.Discussion, error) {
	var comments []models.Discussion
	err := r.db.Preload("User").Where("call_id = ?", callID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (r *discussionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Discussion{}, id).Error
}

func (r *discussionRepository) CountByCall(callID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Discussion{}).Where("call_id = ?", callID).Count(&count).Error
	return count, err
}
