package models

import (
	"time"

	"gorm.io/gorm"
)

// Expert is a tipster whose calls are published on the platform.
type Expert struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Bio       string         `gorm:"type:text" json:"bio"`
	AvatarURL string         `gorm:"type:varchar(255);default:''" json:"avatar_url"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
