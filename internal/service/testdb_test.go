package service

import (
	"testing"
	"time"

	"tienda-u-backend/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. The pool is pinned
// to a single connection so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{}, &model.Section{}, &model.Product{}, &model.DailyStock{},
		&model.Invoice{}, &model.InvoiceLineItem{}, &model.SalesRecord{},
		&model.Profile{}, &model.Address{}, &model.CartBlob{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

func createSection(t *testing.T, db *gorm.DB, name string, order int) *model.Section {
	t.Helper()
	section := &model.Section{Name: name, Active: true, DisplayOrder: order}
	if err := db.Create(section).Error; err != nil {
		t.Fatalf("failed to create section %s: %v", name, err)
	}
	return section
}

func createProduct(t *testing.T, db *gorm.DB, sectionID uuid.UUID, name, price string, order int, active bool) *model.Product {
	t.Helper()
	product := &model.Product{
		SectionID:    sectionID,
		Name:         name,
		UnitPrice:    decimal.RequireFromString(price),
		Active:       active,
		DisplayOrder: order,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product %s: %v", name, err)
	}
	// GORM omits zero-value fields carrying a `default` tag from the
	// INSERT, so active=false must be persisted with an explicit update.
	if !active {
		if err := db.Model(product).Update("active", false).Error; err != nil {
			t.Fatalf("failed to deactivate product %s: %v", name, err)
		}
	}
	return product
}

func createStock(t *testing.T, db *gorm.DB, productID uuid.UUID, date string, qty int) {
	t.Helper()
	stock := &model.DailyStock{
		ProductID:  productID,
		Date:       date,
		InitialQty: qty,
		CurrentQty: qty,
	}
	if err := db.Create(stock).Error; err != nil {
		t.Fatalf("failed to create daily stock: %v", err)
	}
}

// fixedClock returns a clock stuck at the given instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
