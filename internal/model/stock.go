package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical key format for daily stock rows.
const DateLayout = "2006-01-02"

// DateKey formats a wall-clock instant as a daily stock key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DailyStock holds the per-product counters for one calendar day.
// CurrentQty = InitialQty - SoldQty is maintained by the checkout
// transaction, never recomputed on read.
type DailyStock struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_stock_product_date" json:"product_id" validate:"uuid_required"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Date       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_stock_product_date" json:"date" validate:"required"`
	InitialQty int       `gorm:"not null;default:0" json:"initial_qty" validate:"gte=0"`
	CurrentQty int       `gorm:"not null;default:0" json:"current_qty"`
	SoldQty    int       `gorm:"not null;default:0" json:"sold_qty"`
}

// TableName specifies the table name for GORM
func (DailyStock) TableName() string {
	return "daily_stock"
}
