package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/sitewalk-tasks/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// NewestFirst orders digest runs by start time, most recent first
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("started_at DESC").Order("id DESC")
}
