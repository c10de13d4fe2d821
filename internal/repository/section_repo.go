package repository

import (
	"tienda-u-backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository interface {
	FindActive() ([]model.Section, error)
	Create(section *model.Section) error
}

type sectionRepo struct {
	db *gorm.DB
}

func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db}
}

func (r *sectionRepo) FindActive() ([]model.Section, error) {
	var sections []model.Section
	err := r.db.Where("active = ?", true).
		Order("display_order ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) Create(section *model.Section) error {
	return r.db.Create(section).Error
}
