package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CallStatusUpcoming = "Upcoming"
	CallStatusWon      = "Won"
	CallStatusLost     = "Lost"
	CallStatusPush     = "Push"
)

// Call is a single betting pick published by an expert. The feed of calls is
// the subscriber-only content this platform sells access to.
type Call struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	ExpertID      *uint          `gorm:"index" json:"expert_id,omitempty"`
	Expert        *Expert        `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	BetType       string         `gorm:"type:varchar(100);not null" json:"bet_type" validate:"required"`
	MatchHomeTeam string         `gorm:"type:varchar(150);not null" json:"match_home_team" validate:"required"`
	MatchAwayTeam string         `gorm:"type:varchar(150);not null" json:"match_away_team" validate:"required"`
	Odds          string         `gorm:"type:varchar(20);not null" json:"odds" validate:"required"`
	Pick          string         `gorm:"type:varchar(255);not null" json:"pick" validate:"required"`
	Units         float64        `gorm:"type:decimal(4,1);not null" json:"units" validate:"gt=0"`
	Analysis      string         `gorm:"type:text" json:"analysis"`
	Status        string         `gorm:"type:varchar(20);not null;default:'Upcoming';index" json:"status" validate:"oneof=Upcoming Won Lost Push"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Call) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeCreate assigns a public UUID for URLs and API responses.
func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.New().String()
	}
	return nil
}

// Matchup renders "Home vs Away" for feeds and admin tables.
func (c *Call) Matchup() string {
	return fmt.Sprintf("%s vs %s", c.MatchHomeTeam, c.MatchAwayTeam)
}

// IsSettled reports whether the call has a final result.
func (c *Call) IsSettled() bool {
	return c.Status != CallStatusUpcoming
}

// ValidCallStatus reports whether s is one of the known call states.
func ValidCallStatus(s string) bool {
	switch s {
	case CallStatusUpcoming, CallStatusWon, CallStatusLost, CallStatusPush:
		return true
	default:
		return false
	}
}
