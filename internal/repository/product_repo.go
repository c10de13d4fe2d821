package repository

import (
	"tienda-u-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindActive(sectionID *uuid.UUID) ([]model.Product, error)
	FindActiveByIDs(ids []uuid.UUID) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	Create(product *model.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindActive(sectionID *uuid.UUID) ([]model.Product, error) {
	query := r.db.Preload("Section").
		Where("active = ?", true).
		Order("display_order ASC")

	if sectionID != nil {
		query = query.Where("section_id = ?", *sectionID)
	}

	var products []model.Product
	err := query.Find(&products).Error
	return products, err
}

func (r *productRepo) FindActiveByIDs(ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.Product
	err := r.db.Preload("Section").
		Where("active = ? AND id IN ?", true, ids).
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Section").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}
