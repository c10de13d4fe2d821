package service

import (
	"errors"
	"testing"
	"time"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var checkoutAt = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newCheckoutFixture(t *testing.T, cartSvc CartService) (CheckoutService, *gorm.DB, *model.Product) {
	t.Helper()

	db := newTestDB(t)
	section := createSection(t, db, "Almuerzos", 1)
	product := createProduct(t, db, section.ID, "Almuerzo completo", "5.00", 1, true)
	createStock(t, db, product.ID, model.DateKey(checkoutAt), 10)

	svc := NewCheckoutService(
		db,
		repository.NewInvoiceRepo(db),
		repository.NewStockRepo(db),
		cartSvc,
		nil,
		decimal.RequireFromString("0.12"),
		fixedClock(checkoutAt),
	)
	return svc, db, product
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(value).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, db, _ := newCheckoutFixture(t, nil)

	_, err := svc.Checkout(uuid.New(), uuid.New(), nil, model.PaymentCash, "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if n := countRows(t, db, &model.Invoice{}); n != 0 {
		t.Fatalf("expected no invoices, found %d", n)
	}
}

func TestCheckoutRejectsInvalidLines(t *testing.T) {
	svc, _, product := newCheckoutFixture(t, nil)

	tests := []struct {
		name   string
		lines  []CheckoutLine
		method model.PaymentMethod
		want   error
	}{
		{
			"zero quantity",
			[]CheckoutLine{{ProductID: product.ID, Quantity: 0, UnitPrice: product.UnitPrice}},
			model.PaymentCash,
			ErrInvalidQuantity,
		},
		{
			"negative price",
			[]CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("-1.00")}},
			model.PaymentCash,
			ErrInvalidUnitPrice,
		},
		{
			"unknown payment method",
			[]CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}},
			model.PaymentMethod("bitcoin"),
			ErrInvalidPaymentMethod,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Checkout(uuid.New(), uuid.New(), tt.lines, tt.method, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCheckoutWritesInvoiceLinesAndSales(t *testing.T) {
	svc, db, product := newCheckoutFixture(t, nil)
	customerID := uuid.New()
	staffID := uuid.New()

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 2, UnitPrice: product.UnitPrice}}
	invoice, err := svc.Checkout(customerID, staffID, lines, model.PaymentCash, "sin tomate")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if invoice.Number != "20250115-0001" {
		t.Fatalf("expected number 20250115-0001, got %s", invoice.Number)
	}
	if !invoice.Subtotal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected subtotal 10.00, got %s", invoice.Subtotal)
	}
	if !invoice.Tax.Equal(decimal.RequireFromString("1.20")) {
		t.Fatalf("expected tax 1.20, got %s", invoice.Tax)
	}
	if !invoice.Total.Equal(decimal.RequireFromString("11.20")) {
		t.Fatalf("expected total 11.20, got %s", invoice.Total)
	}
	if invoice.Status != model.InvoicePending {
		t.Fatalf("expected pending status, got %s", invoice.Status)
	}

	if n := countRows(t, db, &model.Invoice{}); n != 1 {
		t.Fatalf("expected 1 invoice, found %d", n)
	}

	var items []model.InvoiceLineItem
	if err := db.Find(&items).Error; err != nil {
		t.Fatalf("failed to load line items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, found %d", len(items))
	}
	if items[0].InvoiceID != invoice.ID {
		t.Fatalf("line item belongs to %s, want %s", items[0].InvoiceID, invoice.ID)
	}
	if !items[0].LineTotal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected line total 10.00, got %s", items[0].LineTotal)
	}

	var records []model.SalesRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("failed to load sales records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 sales record, found %d", len(records))
	}
	if records[0].InvoiceID != invoice.ID {
		t.Fatalf("sales record belongs to %s, want %s", records[0].InvoiceID, invoice.ID)
	}

	var stock model.DailyStock
	if err := db.Where("product_id = ? AND date = ?", product.ID, model.DateKey(checkoutAt)).
		First(&stock).Error; err != nil {
		t.Fatalf("failed to load daily stock: %v", err)
	}
	if stock.CurrentQty != 8 {
		t.Fatalf("expected current stock 8 after selling 2 of 10, got %d", stock.CurrentQty)
	}
	if stock.SoldQty != 2 {
		t.Fatalf("expected sold quantity 2, got %d", stock.SoldQty)
	}
}

func TestCheckoutNumbersAreSequential(t *testing.T) {
	svc, _, product := newCheckoutFixture(t, nil)
	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}

	first, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	second, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCard, "")
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}

	if first.Number != "20250115-0001" || second.Number != "20250115-0002" {
		t.Fatalf("expected 20250115-0001 then 20250115-0002, got %s then %s",
			first.Number, second.Number)
	}
}

func TestCheckoutContinuesFromStoredNumber(t *testing.T) {
	svc, db, product := newCheckoutFixture(t, nil)

	prior := &model.Invoice{
		Number:        "20250115-0037",
		CustomerID:    uuid.New(),
		StaffID:       uuid.New(),
		Status:        model.InvoicePaid,
		PaymentMethod: model.PaymentCash,
		InvoiceDate:   checkoutAt.Add(-time.Hour),
	}
	if err := db.Create(prior).Error; err != nil {
		t.Fatalf("failed to seed prior invoice: %v", err)
	}

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}
	invoice, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if invoice.Number != "20250115-0038" {
		t.Fatalf("expected number 20250115-0038, got %s", invoice.Number)
	}
}

func TestCheckoutSequenceResetsEachDay(t *testing.T) {
	db := newTestDB(t)
	section := createSection(t, db, "Almuerzos", 1)
	product := createProduct(t, db, section.ID, "Almuerzo completo", "5.00", 1, true)

	nextDay := checkoutAt.AddDate(0, 0, 1)
	createStock(t, db, product.ID, model.DateKey(nextDay), 10)

	prior := &model.Invoice{
		Number:        "20250115-0042",
		CustomerID:    uuid.New(),
		StaffID:       uuid.New(),
		Status:        model.InvoicePaid,
		PaymentMethod: model.PaymentCash,
		InvoiceDate:   checkoutAt,
	}
	if err := db.Create(prior).Error; err != nil {
		t.Fatalf("failed to seed prior invoice: %v", err)
	}

	svc := NewCheckoutService(
		db,
		repository.NewInvoiceRepo(db),
		repository.NewStockRepo(db),
		nil,
		nil,
		decimal.RequireFromString("0.12"),
		fixedClock(nextDay),
	)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}
	invoice, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if invoice.Number != "20250116-0001" {
		t.Fatalf("expected number 20250116-0001, got %s", invoice.Number)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	section := createSection(t, db, "Almuerzos", 1)
	product := createProduct(t, db, section.ID, "Almuerzo completo", "5.00", 1, true)
	createStock(t, db, product.ID, model.DateKey(checkoutAt), 1)

	svc := NewCheckoutService(
		db,
		repository.NewInvoiceRepo(db),
		repository.NewStockRepo(db),
		nil,
		nil,
		decimal.RequireFromString("0.12"),
		fixedClock(checkoutAt),
	)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 2, UnitPrice: product.UnitPrice}}
	_, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The whole attempt rolls back: no orphan invoice, line items or
	// sales records, and the stock counter is untouched.
	if n := countRows(t, db, &model.Invoice{}); n != 0 {
		t.Fatalf("expected no invoices after rollback, found %d", n)
	}
	if n := countRows(t, db, &model.InvoiceLineItem{}); n != 0 {
		t.Fatalf("expected no line items after rollback, found %d", n)
	}
	if n := countRows(t, db, &model.SalesRecord{}); n != 0 {
		t.Fatalf("expected no sales records after rollback, found %d", n)
	}

	var stock model.DailyStock
	if err := db.Where("product_id = ? AND date = ?", product.ID, model.DateKey(checkoutAt)).
		First(&stock).Error; err != nil {
		t.Fatalf("failed to load daily stock: %v", err)
	}
	if stock.CurrentQty != 1 {
		t.Fatalf("expected stock still 1 after rollback, got %d", stock.CurrentQty)
	}
}

// staleNumberRepo answers the first staleReads last-number lookups with
// "", as if a concurrent checkout had committed between the read and
// the insert. Later lookups pass through to the real repository.
type staleNumberRepo struct {
	repository.InvoiceRepository
	staleReads int
	lookups    int
}

func (r *staleNumberRepo) LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error) {
	r.lookups++
	if r.lookups <= r.staleReads {
		return "", nil
	}
	return r.InvoiceRepository.LastNumberForPrefix(tx, prefix)
}

// brokenNumberRepo fails every last-number lookup.
type brokenNumberRepo struct {
	repository.InvoiceRepository
}

func (r *brokenNumberRepo) LastNumberForPrefix(tx *gorm.DB, prefix string) (string, error) {
	return "", errors.New("relation daily lookup unavailable")
}

func newConflictFixture(t *testing.T, invoiceRepo repository.InvoiceRepository) (CheckoutService, *gorm.DB, *model.Product) {
	t.Helper()

	db := newTestDB(t)
	section := createSection(t, db, "Almuerzos", 1)
	product := createProduct(t, db, section.ID, "Almuerzo completo", "5.00", 1, true)
	createStock(t, db, product.ID, model.DateKey(checkoutAt), 10)

	// The day already has an invoice, so a stale empty lookup derives a
	// number the unique index will reject.
	taken := &model.Invoice{
		Number:        "20250115-0001",
		CustomerID:    uuid.New(),
		StaffID:       uuid.New(),
		Status:        model.InvoicePaid,
		PaymentMethod: model.PaymentCash,
		InvoiceDate:   checkoutAt.Add(-time.Minute),
	}
	if err := db.Create(taken).Error; err != nil {
		t.Fatalf("failed to seed taken number: %v", err)
	}

	svc := NewCheckoutService(
		db,
		invoiceRepo,
		repository.NewStockRepo(db),
		nil,
		nil,
		decimal.RequireFromString("0.12"),
		fixedClock(checkoutAt),
	)
	return svc, db, product
}

func TestCheckoutRetriesOnNumberConflict(t *testing.T) {
	repo := &staleNumberRepo{staleReads: 1}
	svc, db, product := newConflictFixture(t, repo)
	repo.InvoiceRepository = repository.NewInvoiceRepo(db)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}
	invoice, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if err != nil {
		t.Fatalf("checkout failed to recover from a stale lookup: %v", err)
	}

	// The first attempt derived 20250115-0001, hit the unique index and
	// rolled back; the retry re-read and claimed 0002.
	if invoice.Number != "20250115-0002" {
		t.Fatalf("expected number 20250115-0002 after retry, got %s", invoice.Number)
	}
	if repo.lookups != 2 {
		t.Fatalf("expected exactly 2 lookups (stale + retry), got %d", repo.lookups)
	}
	if n := countRows(t, db, &model.Invoice{}); n != 2 {
		t.Fatalf("expected 2 invoices (seeded + new), found %d", n)
	}
	if n := countRows(t, db, &model.InvoiceLineItem{}); n != 1 {
		t.Fatalf("expected the rolled-back attempt to leave no extra line items, found %d", n)
	}
}

func TestCheckoutGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := &staleNumberRepo{staleReads: maxNumberAttempts}
	svc, db, product := newConflictFixture(t, repo)
	repo.InvoiceRepository = repository.NewInvoiceRepo(db)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}
	_, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if !errors.Is(err, ErrNumberConflict) {
		t.Fatalf("expected ErrNumberConflict after exhausted retries, got %v", err)
	}
	if repo.lookups != maxNumberAttempts {
		t.Fatalf("expected %d lookups, got %d", maxNumberAttempts, repo.lookups)
	}

	// Only the seeded invoice survives; every attempt rolled back whole.
	if n := countRows(t, db, &model.Invoice{}); n != 1 {
		t.Fatalf("expected only the seeded invoice, found %d", n)
	}
	if n := countRows(t, db, &model.SalesRecord{}); n != 0 {
		t.Fatalf("expected no sales records, found %d", n)
	}
}

func TestCheckoutFailsWhenNumberLookupFails(t *testing.T) {
	repo := &brokenNumberRepo{}
	svc, db, product := newConflictFixture(t, repo)
	repo.InvoiceRepository = repository.NewInvoiceRepo(db)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 1, UnitPrice: product.UnitPrice}}
	_, err := svc.Checkout(uuid.New(), uuid.New(), lines, model.PaymentCash, "")
	if err == nil {
		t.Fatal("expected checkout to surface the lookup failure")
	}
	if errors.Is(err, ErrNumberConflict) {
		t.Fatalf("lookup failures are not number conflicts, got %v", err)
	}
	if n := countRows(t, db, &model.Invoice{}); n != 1 {
		t.Fatalf("expected only the seeded invoice, found %d", n)
	}
}

func TestCheckoutClearsCustomerCart(t *testing.T) {
	db := newTestDB(t)
	section := createSection(t, db, "Almuerzos", 1)
	product := createProduct(t, db, section.ID, "Almuerzo completo", "5.00", 1, true)
	createStock(t, db, product.ID, model.DateKey(checkoutAt), 10)

	cartSvc := NewCartService(repository.NewCartRepo(db), decimal.RequireFromString("0.12"))
	customerID := uuid.New()
	if _, err := cartSvc.Add(customerID, model.CartItem{Product: *product, Quantity: 2}); err != nil {
		t.Fatalf("failed to fill cart: %v", err)
	}

	svc := NewCheckoutService(
		db,
		repository.NewInvoiceRepo(db),
		repository.NewStockRepo(db),
		cartSvc,
		nil,
		decimal.RequireFromString("0.12"),
		fixedClock(checkoutAt),
	)

	lines := []CheckoutLine{{ProductID: product.ID, Quantity: 2, UnitPrice: product.UnitPrice}}
	if _, err := svc.Checkout(customerID, customerID, lines, model.PaymentCash, ""); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	items, err := cartSvc.Get(customerID)
	if err != nil {
		t.Fatalf("failed to read cart: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after checkout, found %d items", len(items))
	}
}
