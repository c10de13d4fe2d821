package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses. Checkout always creates invoices as pending; no
// client-side transition exists after creation.
type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Payment methods accepted at checkout.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// Invoice (factura) is the header record written at checkout.
// Total = Subtotal + Tax - Discount, computed once at creation.
type Invoice struct {
	BaseModel
	Number        string          `gorm:"type:varchar(13);uniqueIndex;not null" json:"number"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *User           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	StaffID       uuid.UUID       `gorm:"type:uuid;not null" json:"staff_id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Discount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	InvoiceDate   time.Time       `gorm:"not null;index" json:"invoice_date"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
}

// TableName specifies the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceLineItem carries the price snapshot taken at time of sale;
// later product price changes do not affect it.
type InvoiceLineItem struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

// TableName specifies the table name for GORM
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// SalesRecord mirrors a line item for reporting (best sellers, daily
// summaries). It carries no invariant beyond matching the line items
// at creation time.
type SalesRecord struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

// TableName specifies the table name for GORM
func (SalesRecord) TableName() string {
	return "sales_records"
}
