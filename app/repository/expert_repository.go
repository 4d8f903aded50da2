package repository

import (
	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

// expertRepository implements the ExpertRepository interface
type expertRepository struct {
	db *gorm.DB
}

// NewExpertRepository creates a new expert repository instance
func NewExpertRepository(db *gorm.DB) ExpertRepository {
	return &expertRepository{db: db}
}

func (r *expertRepository) Create(expert *models.Expert) error {
	return r.db.Create(expert).Error
}

func (r *expertRepository) GetByID(id uint) (*models.Expert, error) {
	var expert models.Expert
	if err := r.db.First(&expert, id).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepository) GetAll() ([]models.Expert, error) {
	var experts []models.Expert
	err := r.db.Order("name ASC").Find(&experts).Error
	return experts, err
}

func (r *expertRepository) Update(expert *models.Expert) error {
	return r.db.Save(expert).Error
}

func (r *expertRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expert{}, id).Error
}
