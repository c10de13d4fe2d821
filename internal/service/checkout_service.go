package service

import (
	"errors"
	"log"
	"time"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"
	"tienda-u-backend/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("checkout requires at least one line item")
	ErrInvalidQuantity      = errors.New("line item quantity must be greater than zero")
	ErrInvalidUnitPrice     = errors.New("line item unit price must not be negative")
	ErrInvalidPaymentMethod = errors.New("payment method must be cash, card or transfer")
	ErrInsufficientStock    = errors.New("insufficient stock for product")
	ErrNumberConflict       = errors.New("could not allocate a unique invoice number")
)

// CheckoutLine is a cart snapshot taken at call time. Prices are not
// re-validated against the live product here.
type CheckoutLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CheckoutService interface {
	Checkout(customerID, staffID uuid.UUID, lines []CheckoutLine,
		method model.PaymentMethod, notes string) (*model.Invoice, error)
}

// maxNumberAttempts bounds the retry loop for invoice-number conflicts
// between concurrent checkouts. Each attempt re-derives the number
// inside a fresh transaction.
const maxNumberAttempts = 3

type checkoutService struct {
	db          *gorm.DB
	invoiceRepo repository.InvoiceRepository
	stockRepo   repository.StockRepository
	cartSvc     CartService
	hub         *ws.Hub
	taxRate     decimal.Decimal
	now         func() time.Time
}

func NewCheckoutService(
	db *gorm.DB,
	invoiceRepo repository.InvoiceRepository,
	stockRepo repository.StockRepository,
	cartSvc CartService,
	hub *ws.Hub,
	taxRate decimal.Decimal,
	now func() time.Time,
) CheckoutService {
	if now == nil {
		now = time.Now
	}
	return &checkoutService{
		db:          db,
		invoiceRepo: invoiceRepo,
		stockRepo:   stockRepo,
		cartSvc:     cartSvc,
		hub:         hub,
		taxRate:     taxRate,
		now:         now,
	}
}

func (s *checkoutService) Checkout(customerID, staffID uuid.UUID, lines []CheckoutLine,
	method model.PaymentMethod, notes string) (*model.Invoice, error) {

	// 1. Validate before touching the database.
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPrice.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
	}
	if !model.ValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	// 2. Compute totals from the snapshots. No discount applies at
	// creation time even though the invoice row carries the column.
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(tax)

	// 3. Write invoice, line items, sales records and stock counters in
	// one transaction. The invoice number is derived inside the
	// transaction; a duplicate-key failure means another checkout
	// claimed the same number first, so the whole attempt re-runs.
	var invoice *model.Invoice
	checkoutAt := s.now()
	prefix := invoiceDatePrefix(checkoutAt)
	dateKey := model.DateKey(checkoutAt)

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		invoice = nil
		err := s.db.Transaction(func(tx *gorm.DB) error {
			// A failed lookup fails the whole attempt. Postgres aborts
			// the transaction after any statement error, so the inserts
			// could not proceed anyway.
			last, err := s.invoiceRepo.LastNumberForPrefix(tx, prefix)
			if err != nil {
				return err
			}

			created := &model.Invoice{
				Number:        nextInvoiceNumber(prefix, last),
				CustomerID:    customerID,
				StaffID:       staffID,
				Subtotal:      subtotal,
				Tax:           tax,
				Discount:      decimal.Zero,
				Total:         total,
				Status:        model.InvoicePending,
				PaymentMethod: method,
				Notes:         notes,
				InvoiceDate:   checkoutAt,
			}
			if err := s.invoiceRepo.CreateInvoice(tx, created); err != nil {
				return err
			}

			items := make([]model.InvoiceLineItem, len(lines))
			records := make([]model.SalesRecord, len(lines))
			for i, line := range lines {
				lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
				items[i] = model.InvoiceLineItem{
					InvoiceID: created.ID,
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					LineTotal: lineTotal,
				}
				records[i] = model.SalesRecord{
					InvoiceID: created.ID,
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					UnitPrice: line.UnitPrice,
					LineTotal: lineTotal,
				}
			}
			if err := s.invoiceRepo.CreateLineItems(tx, items); err != nil {
				return err
			}
			if err := s.invoiceRepo.CreateSalesRecords(tx, records); err != nil {
				return err
			}

			for _, line := range lines {
				ok, err := s.stockRepo.Decrement(tx, line.ProductID, dateKey, line.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return ErrInsufficientStock
				}
			}

			invoice = created
			return nil
		})

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if invoice == nil {
		return nil, ErrNumberConflict
	}

	// 4. Post-commit side effects: clear the customer's cart and notify
	// listeners. Neither failure undoes the committed invoice.
	if s.cartSvc != nil {
		if err := s.cartSvc.Clear(customerID); err != nil {
			log.Println("checkout: failed to clear cart for", customerID, ":", err)
		}
	}
	if s.hub != nil {
		go s.hub.BroadcastJSON(map[string]interface{}{
			"type":        "order_created",
			"invoice_id":  invoice.ID,
			"number":      invoice.Number,
			"customer_id": customerID,
			"total":       invoice.Total,
			"status":      invoice.Status,
		})
	}

	return invoice, nil
}
