package repository

import (
	"time"

	"tienda-u-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	// LastNumberForPrefix returns the lexically greatest invoice number
	// starting with the given day prefix, or "" when none exists. The
	// fixed-width zero-padded suffix makes lexical and numeric order
	// coincide within a day.
	LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error)

	// The three insert methods run inside the caller's transaction so
	// invoice, line items and sales records appear or fail together.
	CreateInvoice(tx *gorm.DB, invoice *model.Invoice) error
	CreateLineItems(tx *gorm.DB, items []model.InvoiceLineItem) error
	CreateSalesRecords(tx *gorm.DB, records []model.SalesRecord) error

	FindAll(customerID *uuid.UUID) ([]model.Invoice, error)
	FindByID(id uuid.UUID) (*model.Invoice, error)

	// BestSellers aggregates sales records since the given instant,
	// grouped by product, most sold first.
	BestSellers(since time.Time) ([]BestSellerRow, error)
}

// BestSellerRow is one aggregate row of the best-sellers query.
type BestSellerRow struct {
	ProductID    uuid.UUID `gorm:"column:product_id" json:"product_id"`
	QuantitySold int       `gorm:"column:quantity_sold" json:"quantity_sold"`
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error) {
	var invoice model.Invoice
	err := tx.Select("number").
		Where("number LIKE ?", prefix+"-%").
		Order("number DESC").
		First(&invoice).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return invoice.Number, nil
}

func (r *invoiceRepo) CreateInvoice(tx *gorm.DB, invoice *model.Invoice) error {
	return tx.Create(invoice).Error
}

func (r *invoiceRepo) CreateLineItems(tx *gorm.DB, items []model.InvoiceLineItem) error {
	return tx.Create(&items).Error
}

func (r *invoiceRepo) CreateSalesRecords(tx *gorm.DB, records []model.SalesRecord) error {
	return tx.Create(&records).Error
}

func (r *invoiceRepo) FindAll(customerID *uuid.UUID) ([]model.Invoice, error) {
	query := r.db.Preload("LineItems").
		Preload("LineItems.Product").
		Order("invoice_date DESC")

	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	var invoices []model.Invoice
	err := query.Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByID(id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.Preload("LineItems").
		Preload("LineItems.Product").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) BestSellers(since time.Time) ([]BestSellerRow, error) {
	var rows []BestSellerRow
	err := r.db.Model(&model.SalesRecord{}).
		Select("product_id, SUM(quantity) as quantity_sold").
		Where("created_at >= ?", since).
		Group("product_id").
		Order("quantity_sold DESC").
		Scan(&rows).Error
	return rows, err
}
