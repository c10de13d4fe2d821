package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CartItem is one cart line: a full product snapshot plus quantity.
// A cart holds at most one line per product id.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes,omitempty"`
}

// CartSummary is the derived totals view of a cart.
type CartSummary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CartBlob persists a user's whole cart as a single keyed JSON blob,
// overwritten on every mutation.
type CartBlob struct {
	BaseModel
	UserID uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Items  datatypes.JSON `gorm:"not null" json:"items"`
}

// TableName specifies the table name for GORM
func (CartBlob) TableName() string {
	return "cart_blobs"
}
