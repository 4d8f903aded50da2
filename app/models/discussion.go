package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is a comment attached to a call.
type Discussion struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CallID    uint           `gorm:"index;not null" json:"call_id"`
	Call      Call           `gorm:"foreignKey:CallID" json:"call,omitempty"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string         `gorm:"type:text;not null" json:"content" validate:"required,min=1"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
