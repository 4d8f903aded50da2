package repository

import (
	"gorm.io/gorm"

	"github.com/betercalls/BeterCalls/app/models"
)

// callRepository implements the CallRepository interface
type callRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository instance
func NewCallRepository(db *gorm.DB) CallRepository {
	return &callRepository{db: db}
}

func (r *callRepository) Create(call *models.Call) error {
	return r.db.Create(call).Error
}

func (r *callRepository) GetByID(id uint) (*models.Call, error) {
	var call models.Call
	if err := r.db.Preload("Expert").First(&call, id).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

func (r *callRepository) GetByUUID(uuid string) (*models.Call, error) {
	var call models.Call
	if err := r.db.Preload("Expert").Where("uuid = ?", uuid).First(&call).Error; err != nil {
		return nil, err
	}
	return &call, nil
}

// List returns the call feed, newest first
func (r *callRepository) List(offset, limit int) ([]models.Call, error) {
	var calls []models.Call
	err := r.db.Preload("Expert").Order("created_at DESC").Offset(offset).Limit(limit).Find(&calls).Error
	return calls, err
}

func (r *callRepository) ListByExpert(expertID uint, offset, limit int) ([]models.Call, error) {
	var calls []models.Call
	err := r.db.Preload("Expert").Where("expert_id = ?", expertID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&calls).Error
	return calls, err
}

func (r *callRepository) Update(call *models.Call) error {
	return r.db.Save(call).Error
}

// UpdateStatus settles a call without touching the rest of the row
func (r *callRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Call{}).Where("id = ?", id).Update("status", status).Error
}

func (r *callRepository) Delete(id uint) error {
	return r.db.Delete(&models.Call{}, id).Error
}

func (r *callRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Call{}).Count(&count).Error
	return count, err
}
