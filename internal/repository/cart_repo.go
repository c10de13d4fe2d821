package repository

import (
	"tienda-u-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Load(userID uuid.UUID) (*model.CartBlob, error)
	Save(userID uuid.UUID, items datatypes.JSON) error
}

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) CartRepository {
	return &cartRepo{db}
}

func (r *cartRepo) Load(userID uuid.UUID) (*model.CartBlob, error) {
	var blob model.CartBlob
	if err := r.db.First(&blob, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &blob, nil
}

func (r *cartRepo) Save(userID uuid.UUID, items datatypes.JSON) error {
	blob := model.CartBlob{
		UserID: userID,
		Items:  items,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&blob).Error
}
