package repository

import (
	"github.com/yukikurage/sitewalk-tasks/internal/database"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/utils"
	"gorm.io/gorm"
)

// GormDigestRepository is a GORM implementation of DigestRepository
type GormDigestRepository struct {
	db *gorm.DB
}

// NewDigestRepository creates a new DigestRepository
func NewDigestRepository(db *gorm.DB) DigestRepository {
	return &GormDigestRepository{db: db}
}

// Create stores the run; gorm inserts the deliveries in the same transaction
func (r *GormDigestRepository) Create(run *models.DigestRun) error {
	return r.db.Create(run).Error
}

// List retrieves runs with pagination, newest first
func (r *GormDigestRepository) List(params utils.PaginationParams) ([]models.DigestRun, int64, error) {
	var total int64
	if err := r.db.Model(&models.DigestRun{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	runs := []models.DigestRun{}
	err := r.db.
		Preload("Deliveries").
		Scopes(database.NewestFirst, database.Paginate(params)).
		Find(&runs).Error
	if err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}
