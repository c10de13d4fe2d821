package repository

import (
	"tienda-u-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository interface {
	FindByUserID(userID uuid.UUID) (*model.Profile, error)
	FindAddressByUserID(userID uuid.UUID) (*model.Address, error)
	UpsertProfile(profile *model.Profile) error
	UpsertAddress(address *model.Address) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db}
}

func (r *profileRepo) FindByUserID(userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) FindAddressByUserID(userID uuid.UUID) (*model.Address, error) {
	var address model.Address
	if err := r.db.First(&address, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *profileRepo) UpsertProfile(profile *model.Profile) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_name", "last_name", "full_name", "cedula_ruc",
			"phone", "gender", "birth_date", "updated_at", "updated_by",
		}),
	}).Create(profile).Error
}

func (r *profileRepo) UpsertAddress(address *model.Address) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"country_id", "province_id", "canton_id",
			"street_address", "reference", "updated_at", "updated_by",
		}),
	}).Create(address).Error
}
