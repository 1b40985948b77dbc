package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// StoragePool represents a storage location for listing media files.
type StoragePool struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	BasePath    string    `gorm:"type:varchar(500);not null" json:"base_path"`
	MaxSize     int64     `gorm:"type:bigint;not null" json:"max_size"`
	UsedSize    int64     `gorm:"type:bigint;default:0" json:"used_size"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	Priority    int       `gorm:"default:100" json:"priority"` // lower number = higher priority
	StorageType string    `gorm:"type:varchar(50);default:'local'" json:"storage_type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// StoragePoolStats represents statistics for a storage pool
type StoragePoolStats struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	UsedSize        int64   `json:"used_size"`
	MaxSize         int64   `json:"max_size"`
	AvailableSize   int64   `json:"available_size"`
	UsagePercentage float64 `json:"usage_percentage"`
	ImageCount      int64   `json:"image_count"`
	IsHealthy       bool    `json:"is_healthy"`
}

// BeforeCreate validates the storage pool before creation
func (sp *StoragePool) BeforeCreate(tx *gorm.DB) error {
	if err := sp.ValidateBasePath(); err != nil {
		return err
	}
	return sp.ensureSingleDefault(tx)
}

// BeforeUpdate validates the storage pool before update
func (sp *StoragePool) BeforeUpdate(tx *gorm.DB) error {
	if err := sp.ValidateBasePath(); err != nil {
		return err
	}
	return sp.ensureSingleDefault(tx)
}

func (sp *StoragePool) ensureSingleDefault(tx *gorm.DB) error {
	if !sp.IsDefault {
		return nil
	}
	var count int64
	if err := tx.Model(&StoragePool{}).Where("is_default = ? AND id != ?", true, sp.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("only one default storage pool is allowed")
	}
	return nil
}

// ValidateBasePath checks if the base path is valid and writable
func (sp *StoragePool) ValidateBasePath() error {
	if sp.BasePath == "" {
		return errors.New("base path cannot be empty")
	}
	if !filepath.IsAbs(sp.BasePath) {
		return errors.New("base path must be absolute")
	}
	if err := os.MkdirAll(sp.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to create base path directory: %w", err)
	}

	testFile := filepath.Join(sp.BasePath, ".immofund_write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("base path is not writable: %w", err)
	}
	os.Remove(testFile)

	return nil
}

// GetAvailableSize returns the available space in this pool
func (sp *StoragePool) GetAvailableSize() int64 {
	return sp.MaxSize - sp.UsedSize
}

// GetUsagePercentage returns the usage percentage of this pool
func (sp *StoragePool) GetUsagePercentage() float64 {
	if sp.MaxSize == 0 {
		return 0
	}
	return (float64(sp.UsedSize) / float64(sp.MaxSize)) * 100
}

// IsHealthy checks if the storage pool is healthy
func (sp *StoragePool) IsHealthy() bool {
	if err := sp.ValidateBasePath(); err != nil {
		log.Errorf("[StoragePool] Health check failed for pool %s: %v", sp.Name, err)
		return false
	}
	if sp.UsedSize > sp.MaxSize {
		log.Warnf("[StoragePool] Pool %s is over capacity: %d/%d bytes", sp.Name, sp.UsedSize, sp.MaxSize)
		return false
	}
	return true
}

// CanAcceptFile checks if this pool can accept a file of given size
func (sp *StoragePool) CanAcceptFile(size int64) bool {
	if !sp.IsActive {
		return false
	}
	return sp.GetAvailableSize() >= size
}

// UpdateUsedSize updates the used size of the pool
func (sp *StoragePool) UpdateUsedSize(db *gorm.DB, sizeDelta int64) error {
	return db.Model(sp).UpdateColumn("used_size", gorm.Expr("used_size + ?", sizeDelta)).Error
}

// FindStoragePoolByID finds a storage pool by ID
func FindStoragePoolByID(db *gorm.DB, id uint) (*StoragePool, error) {
	var pool StoragePool
	result := db.Where("id = ?", id).First(&pool)
	return &pool, result.Error
}

// FindDefaultStoragePool finds the default storage pool
func FindDefaultStoragePool(db *gorm.DB) (*StoragePool, error) {
	var pool StoragePool
	result := db.Where("is_default = ?", true).First(&pool)
	return &pool, result.Error
}

// FindActiveStoragePools returns all active storage pools ordered by priority
func FindActiveStoragePools(db *gorm.DB) ([]StoragePool, error) {
	var pools []StoragePool
	result := db.Where("is_active = ?", true).Order("priority ASC, id ASC").Find(&pools)
	return pools, result.Error
}

// SelectOptimalPool selects the best storage pool for a file of given size
func SelectOptimalPool(db *gorm.DB, fileSize int64) (*StoragePool, error) {
	pools, err := FindActiveStoragePools(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get active storage pools: %w", err)
	}
	if len(pools) == 0 {
		return nil, errors.New("no active storage pools available")
	}

	for _, pool := range pools {
		if pool.CanAcceptFile(fileSize) {
			return &pool, nil
		}
	}

	// Last resort: the default pool, even when nominally full.
	defaultPool, err := FindDefaultStoragePool(db)
	if err != nil {
		return nil, fmt.Errorf("no pools can accept file of size %d bytes and no default pool found: %w", fileSize, err)
	}
	if defaultPool.IsActive {
		log.Warnf("[StoragePool] Using default pool %s for oversized file (%d bytes)", defaultPool.Name, fileSize)
		return defaultPool, nil
	}

	return nil, fmt.Errorf("no storage pools can accept file of size %d bytes", fileSize)
}

// FindAllStoragePools returns every configured storage pool
func FindAllStoragePools(db *gorm.DB) ([]StoragePool, error) {
	var pools []StoragePool
	result := db.Order("priority ASC, id ASC").Find(&pools)
	return pools, result.Error
}

// GetStoragePoolStats returns statistics for a storage pool
func GetStoragePoolStats(db *gorm.DB, poolID uint) (*StoragePoolStats, error) {
	pool, err := FindStoragePoolByID(db, poolID)
	if err != nil {
		return nil, err
	}

	var imageCount int64
	db.Model(&ProjectImage{}).Where("storage_pool_id = ?", poolID).Count(&imageCount)

	return &StoragePoolStats{
		ID:              pool.ID,
		Name:            pool.Name,
		UsedSize:        pool.UsedSize,
		MaxSize:         pool.MaxSize,
		AvailableSize:   pool.GetAvailableSize(),
		UsagePercentage: pool.GetUsagePercentage(),
		ImageCount:      imageCount,
		IsHealthy:       pool.IsHealthy(),
	}, nil
}

// GetAllStoragePoolStats returns statistics for every storage pool
func GetAllStoragePoolStats(db *gorm.DB) ([]StoragePoolStats, error) {
	pools, err := FindAllStoragePools(db)
	if err != nil {
		return nil, err
	}

	stats := make([]StoragePoolStats, 0, len(pools))
	for _, pool := range pools {
		s, err := GetStoragePoolStats(db, pool.ID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *s)
	}
	return stats, nil
}
