package repository

import (
	"github.com/immofund/ImmoFund/app/models"
	"gorm.io/gorm"
)

// documentRepository implements the DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository instance
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create creates a new document in the database
func (r *documentRepository) Create(document *models.Document) error {
	return r.db.Create(document).Error
}

// GetByID retrieves a document by its ID
func (r *documentRepository) GetByID(id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// GetByUUID retrieves a document by its UUID
func (r *documentRepository) GetByUUID(uuid string) (*models.Document, error) {
	var document models.Document
	err := r.db.Where("uuid = ?", uuid).First(&document).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

// GetByProjectID retrieves all documents of a project
func (r *documentRepository) GetByProjectID(projectID uint) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at ASC").Find(&documents).Error
	return documents, err
}

// GetPublicByProjectID retrieves investor-visible documents of a project
func (r *documentRepository) GetPublicByProjectID(projectID uint) ([]models.Document, error) {
	return models.FindPublicDocumentsByProject(r.db, projectID)
}

// Update updates an existing document in the database
func (r *documentRepository) Update(document *models.Document) error {
	return r.db.Save(document).Error
}

// Delete soft deletes a document by its ID
func (r *documentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Document{}, id).Error
}

// CountByProjectID returns the number of documents attached to a project
func (r *documentRepository) CountByProjectID(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Document{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
