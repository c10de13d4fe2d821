package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"
	"tienda-u-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	// GetProfile returns the profile and address for a user. Missing
	// records come back zero-valued, never as an error.
	GetProfile(userID uuid.UUID) (*model.Profile, *model.Address, error)
	SaveProfile(userID uuid.UUID, profile *model.Profile, address *model.Address) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(userID uuid.UUID) (*model.Profile, *model.Address, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &model.Profile{UserID: userID, Role: model.RoleCustomer}
	} else if err != nil {
		return nil, nil, err
	}

	address, err := s.profileRepo.FindAddressByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		address = &model.Address{UserID: userID, CountryID: 1}
	} else if err != nil {
		return nil, nil, err
	}

	return profile, address, nil
}

func (s *profileService) SaveProfile(userID uuid.UUID, profile *model.Profile, address *model.Address) error {
	profile.UserID = userID
	profile.FullName = strings.TrimSpace(
		strings.TrimSpace(profile.FirstName) + " " + strings.TrimSpace(profile.LastName))
	if profile.Role == "" {
		profile.Role = model.RoleCustomer
	}

	if errs := validator.ValidateStruct(profile); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if err := s.profileRepo.UpsertProfile(profile); err != nil {
		return err
	}

	// The address is optional and its failure does not undo the profile
	// save; customers can fix it on the next edit.
	if address != nil && address.HasContent() {
		address.UserID = userID
		if address.CountryID == 0 {
			address.CountryID = 1 // Default Ecuador
		}
		if err := s.profileRepo.UpsertAddress(address); err != nil {
			log.Println("profile: failed to save address for", userID, ":", err)
		}
	}

	return nil
}
