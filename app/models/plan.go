package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	PlanIntervalMonthly  = "monthly"
	PlanIntervalYearly   = "yearly"
	PlanIntervalLifetime = "lifetime"
)

// Plan is a canonical subscription offering. The stored price is the only
// price the checkout flow ever uses; client-supplied amounts are ignored.
// Edits only affect future checkouts, existing subscriptions keep the terms
// they were sold at.
type Plan struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=2,max=100"`
	Description    string         `gorm:"type:text" json:"description"`
	Price          float64        `gorm:"type:decimal(10,2);not null" json:"price" validate:"gte=0"`
	Currency       string         `gorm:"type:varchar(10);not null;default:'USDC'" json:"currency"`
	Interval       string         `gorm:"type:varchar(20);not null" json:"interval" validate:"oneof=monthly yearly lifetime"`
	FeaturesJSON   string         `gorm:"type:text" json:"-"`
	IsActive       bool           `gorm:"default:true;index" json:"is_active"`
	HelioProductID string         `gorm:"type:varchar(191);default:''" json:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// IsRecurring reports whether checkout should request a recurring pay link.
// Lifetime plans are sold as a one-time payment.
func (p *Plan) IsRecurring() bool {
	return p.Interval != PlanIntervalLifetime
}

// Features decodes the stored feature list; a broken or empty value just
// yields no features instead of an error at render time.
func (p *Plan) Features() []string {
	if strings.TrimSpace(p.FeaturesJSON) == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(p.FeaturesJSON), &features); err != nil {
		return nil
	}
	return features
}

// SetFeatures encodes the feature list for storage.
func (p *Plan) SetFeatures(features []string) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.FeaturesJSON = string(data)
	return nil
}

// TierForPlanName maps a plan or subscription name to the entitlement tier
// stored on the user. Provider events carry the plan name, not our plan id.
func TierForPlanName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "lifetime"):
		return TierLifetime
	case strings.Contains(n, "yearly"), strings.Contains(n, "annual"):
		return TierYearly
	case strings.Contains(n, "monthly"):
		return TierMonthly
	default:
		return ""
	}
}
