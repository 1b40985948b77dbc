package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription is an account's current plan instance. Exactly one
// active-or-trial subscription exists per account at a time; a cancelled
// subscription stays queryable until its end date elapses.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tier      string     `gorm:"type:varchar(50);not null;default:'starter';index" json:"tier"`
	Status    string     `gorm:"type:varchar(32);not null;default:'trial';index" json:"status"`
	StartDate time.Time  `gorm:"type:timestamp;not null" json:"start_date"`
	EndDate   *time.Time `gorm:"type:timestamp;default:null" json:"end_date,omitempty"`
	AutoRenew bool       `gorm:"default:false" json:"auto_renew"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription currently confers entitlements.
// Trial is a distinct lifecycle state and does not count as active.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}

// IsLapsed reports whether the subscription's paid period has run out.
func (s *Subscription) IsLapsed(now time.Time) bool {
	return s.EndDate != nil && s.EndDate.Before(now)
}

// FindCurrentSubscription returns the newest non-expired subscription for a
// user, or gorm.ErrRecordNotFound.
func FindCurrentSubscription(db *gorm.DB, userID uint) (*Subscription, error) {
	var sub Subscription
	result := db.Where("user_id = ? AND status <> ?", userID, SubscriptionStatusExpired).
		Order("created_at DESC").
		First(&sub)
	if result.Error != nil {
		return nil, result.Error
	}
	return &sub, nil
}
