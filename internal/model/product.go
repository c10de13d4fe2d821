package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item belonging to a menu section.
type Product struct {
	BaseModel
	SectionID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"section_id" validate:"uuid_required"`
	Section      *Section        `gorm:"foreignKey:SectionID" json:"section,omitempty" validate:"-"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description  string          `gorm:"type:text" json:"description"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	ImageURL     string          `gorm:"type:text" json:"image_url"`
	Active       bool            `gorm:"default:true;index" json:"active"`
	DisplayOrder int             `gorm:"default:0" json:"display_order"`

	// CurrentStock is today's remaining quantity, resolved against
	// daily_stock at read time. Never persisted on the product row.
	CurrentStock int `gorm:"-" json:"current_stock"`
}
