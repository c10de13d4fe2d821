package handler

import (
	"errors"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	historyService  service.HistoryService
	cartService     service.CartService
}

func NewOrderHandler(
	checkoutService service.CheckoutService,
	historyService service.HistoryService,
	cartService service.CartService,
) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		historyService:  historyService,
		cartService:     cartService,
	}
}

// CheckoutRequest represents the checkout body. Line items come from
// the caller's server-side cart, not the request.
type CheckoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes"`
	StaffID       *uuid.UUID          `json:"staff_id"`
}

// Checkout turns the caller's cart into an invoice
// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// Snapshot the cart at call time.
	items, err := h.cartService.Get(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	lines := make([]service.CheckoutLine, len(items))
	for i, item := range items {
		lines[i] = service.CheckoutLine{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.UnitPrice,
		}
	}

	// Self-service orders have no assigned staff member; the customer
	// stands in for both roles.
	staffID := userID
	if req.StaffID != nil {
		staffID = *req.StaffID
	}

	invoice, err := h.checkoutService.Checkout(userID, staffID, lines, req.PaymentMethod, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidUnitPrice),
			errors.Is(err, service.ErrInvalidPaymentMethod):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInsufficientStock):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Could not create invoice"})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "Invoice created", "data": invoice})
}

// GetInvoices lists invoices newest first. Customers always see their
// own; staff can pass customer_id or omit it for all.
// GET /api/v1/invoices?customer_id=<uuid>
func (h *OrderHandler) GetInvoices(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	customerID := &userID
	if role := getUserRole(c); role == model.RoleStaff || role == model.RoleAdmin {
		customerID = nil
		if raw := c.Query("customer_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
			}
			customerID = &id
		}
	}

	invoices, err := h.historyService.ListInvoices(customerID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(invoices)
}

// GetInvoice resolves one invoice with its line items
// GET /api/v1/invoices/:id
func (h *OrderHandler) GetInvoice(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	invoice, err := h.historyService.GetInvoice(invoiceID)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	// Customers may only read their own invoices.
	role := getUserRole(c)
	if invoice.CustomerID != userID && role != model.RoleStaff && role != model.RoleAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.JSON(invoice)
}
