package repository

import (
	"encoding/json"
	"fmt"

	"github.com/immofund/ImmoFund/app/models"
	"github.com/immofund/ImmoFund/internal/pkg/cache"
	"gorm.io/gorm"
)

// storagePoolRepository implements the StoragePoolRepository interface
type storagePoolRepository struct {
	db *gorm.DB
}

// NewStoragePoolRepository creates a new storage pool repository instance
func NewStoragePoolRepository(db *gorm.DB) StoragePoolRepository {
	return &storagePoolRepository{db: db}
}

// Create creates a new storage pool in the database
func (r *storagePoolRepository) Create(pool *models.StoragePool) error {
	return r.db.Create(pool).Error
}

// GetByID retrieves a storage pool by its ID
func (r *storagePoolRepository) GetByID(id uint) (*models.StoragePool, error) {
	var pool models.StoragePool
	err := r.db.First(&pool, id).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetAll retrieves all storage pools
func (r *storagePoolRepository) GetAll() ([]models.StoragePool, error) {
	var pools []models.StoragePool
	err := r.db.Order("priority ASC, created_at ASC").Find(&pools).Error
	return pools, err
}

// GetActive retrieves all active storage pools
func (r *storagePoolRepository) GetActive() ([]models.StoragePool, error) {
	var pools []models.StoragePool
	err := r.db.Where("is_active = ?", true).
		Order("priority ASC, created_at ASC").Find(&pools).Error
	return pools, err
}

// GetOptimalForFile finds the best storage pool for a file of given size
func (r *storagePoolRepository) GetOptimalForFile(fileSize int64) (*models.StoragePool, error) {
	return models.SelectOptimalPool(r.db, fileSize)
}

// Update updates an existing storage pool in the database
func (r *storagePoolRepository) Update(pool *models.StoragePool) error {
	return r.db.Save(pool).Error
}

// Delete deletes a storage pool by its ID
func (r *storagePoolRepository) Delete(id uint) error {
	return r.db.Delete(&models.StoragePool{}, id).Error
}

// UpdateUsage updates the used size of a storage pool
func (r *storagePoolRepository) UpdateUsage(id uint, sizeChange int64) error {
	if sizeChange == 0 {
		return nil
	}

	// Update the used_size field atomically
	return r.db.Model(&models.StoragePool{}).Where("id = ?", id).
		UpdateColumn("used_size", gorm.Expr("used_size + ?", sizeChange)).Error
}

// GetStats retrieves statistics for a specific storage pool
func (r *storagePoolRepository) GetStats(id uint) (*models.StoragePoolStats, error) {
	return models.GetStoragePoolStats(r.db, id)
}

// GetAllStats retrieves statistics for all storage pools
func (r *storagePoolRepository) GetAllStats() ([]models.StoragePoolStats, error) {
	return models.GetAllStoragePoolStats(r.db)
}

// GetHealthStatus performs health checks on all storage pools
func (r *storagePoolRepository) GetHealthStatus() (map[uint]bool, error) {
	pools, err := r.GetAll()
	if err != nil {
		return nil, err
	}

	healthStatus := make(map[uint]bool)
	for _, pool := range pools {
		// Prefer cached health from heartbeat if available
		key := fmt.Sprintf("storage_health:%d", pool.ID)
		if s, err := cache.Get(key); err == nil && s != "" {
			var payload struct {
				Healthy bool `json:"healthy"`
			}
			if jsonErr := json.Unmarshal([]byte(s), &payload); jsonErr == nil {
				healthStatus[pool.ID] = payload.Healthy
				continue
			}
		}
		// Fallback to direct check
		healthStatus[pool.ID] = pool.IsHealthy()
	}

	return healthStatus, nil
}

// IsPoolHealthy checks if a specific storage pool is healthy
func (r *storagePoolRepository) IsPoolHealthy(id uint) (bool, error) {
	pool, err := r.GetByID(id)
	if err != nil {
		return false, err
	}

	return pool.IsHealthy(), nil
}

// CountImagesInPool counts the number of photos in a specific storage pool
func (r *storagePoolRepository) CountImagesInPool(poolID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectImage{}).Where("storage_pool_id = ?", poolID).Count(&count).Error
	return count, err
}

// RecalculatePoolUsage recalculates the actual usage of a storage pool
func (r *storagePoolRepository) RecalculatePoolUsage(poolID uint) (int64, error) {
	var totalSize int64
	err := r.db.Model(&models.ProjectImage{}).
		Where("storage_pool_id = ?", poolID).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&totalSize).Error
	if err != nil {
		return 0, err
	}

	// Update the pool with calculated usage
	err = r.db.Model(&models.StoragePool{}).Where("id = ?", poolID).
		Update("used_size", totalSize).Error
	if err != nil {
		return 0, err
	}

	return totalSize, nil
}
