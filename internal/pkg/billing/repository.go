package billing

import (
	"time"

	"gorm.io/gorm"

	"github.com/immofund/ImmoFund/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	GetCurrentSubscription(userID uint) (*models.Subscription, error)
	CreateSubscription(sub *models.Subscription) error
	SaveSubscription(sub *models.Subscription) error
	ListLapsedSubscriptions(now time.Time) ([]models.Subscription, error)
	CreateAddOn(addOn *models.AddOn) error
	ListActiveAddOns(userID uint) ([]models.AddOn, error)
	ExpireAddOns(now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetCurrentSubscription(userID uint) (*models.Subscription, error) {
	return models.FindCurrentSubscription(r.db, userID)
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) ListLapsedSubscriptions(now time.Time) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Where("status IN ? AND end_date IS NOT NULL AND end_date < ?",
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusTrial}, now).
		Find(&subs).Error
	return subs, err
}

func (r *gormRepository) CreateAddOn(addOn *models.AddOn) error {
	return r.db.Create(addOn).Error
}

func (r *gormRepository) ListActiveAddOns(userID uint) ([]models.AddOn, error) {
	return models.FindActiveAddOns(r.db, userID)
}

func (r *gormRepository) ExpireAddOns(now time.Time) (int64, error) {
	tx := r.db.Model(&models.AddOn{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", models.AddOnStatusActive, now).
		Update("status", models.AddOnStatusExpired)
	return tx.RowsAffected, tx.Error
}
