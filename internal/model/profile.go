package model

import "github.com/google/uuid"

// Profile is the customer identity record, one-to-one with a user.
// FullName is always derived from FirstName + LastName on save.
type Profile struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name" validate:"required"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name" validate:"required"`
	FullName  string    `gorm:"type:varchar(255)" json:"full_name"`
	CedulaRUC string    `gorm:"type:varchar(13)" json:"cedula_ruc" validate:"omitempty,cedula_ruc"`
	Phone     string    `gorm:"type:varchar(15)" json:"phone" validate:"omitempty,ec_phone"`
	Gender    string    `gorm:"type:varchar(20)" json:"gender"`
	BirthDate string    `gorm:"type:varchar(10)" json:"birth_date"`
	Role      string    `gorm:"type:varchar(20);default:'customer'" json:"role"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// Address is the shipping/reference address, one-to-one with a user.
type Address struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CountryID     int       `gorm:"default:1" json:"country_id"` // 1 = Ecuador
	ProvinceID    int       `json:"province_id"`
	CantonID      int       `json:"canton_id"`
	StreetAddress string    `gorm:"type:text" json:"street_address"`
	Reference     string    `gorm:"type:text" json:"reference"`
}

// TableName specifies the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// HasContent reports whether the address carries anything worth saving.
func (a *Address) HasContent() bool {
	return a.StreetAddress != "" || a.Reference != ""
}
