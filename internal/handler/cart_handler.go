package handler

import (
	"errors"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService    service.CartService
	catalogService service.CatalogService
}

func NewCartHandler(cartService service.CartService, catalogService service.CatalogService) *CartHandler {
	return &CartHandler{cartService: cartService, catalogService: catalogService}
}

// GetCart returns the caller's cart lines
// GET /api/v1/cart
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	items, err := h.cartService.Get(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// AddItemRequest represents the add-to-cart body
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes"`
}

// AddItem adds a product snapshot to the cart (quantities merge)
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	// Snapshot the product at add time; the cart keeps this copy even
	// if the live price changes later.
	product, err := h.catalogService.GetProduct(req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	items, err := h.cartService.Add(userID, model.CartItem{
		Product:  *product,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCartItem) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.Status(201).JSON(items)
}

// UpdateItemRequest represents the quantity update body
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity; zero or less removes the line
// PUT /api/v1/cart/items/:productId
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	items, err := h.cartService.SetQuantity(userID, productID, req.Quantity)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// RemoveItem drops a line from the cart
// DELETE /api/v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	items, err := h.cartService.Remove(userID, productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.cartService.Clear(userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

// GetSummary returns subtotal, tax, total and item count
// GET /api/v1/cart/summary
func (h *CartHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	summary, err := h.cartService.Summary(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}
