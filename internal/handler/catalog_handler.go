package handler

import (
	"errors"

	"tienda-u-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetSections lists active menu sections in display order
// GET /api/v1/sections
func (h *CatalogHandler) GetSections(c *fiber.Ctx) error {
	sections, err := h.service.ListSections()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sections)
}

// GetProducts lists active products with today's stock attached
// GET /api/v1/products?section_id=<uuid>
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	var sectionID *uuid.UUID
	if raw := c.Query("section_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid section ID"})
		}
		sectionID = &id
	}

	products, err := h.service.ListProducts(sectionID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// GetFeaturedProducts lists the best sellers of the trailing month
// GET /api/v1/products/featured?limit=N
func (h *CatalogHandler) GetFeaturedProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	products, err := h.service.ListFeaturedProducts(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// SetDailyStockRequest represents the daily stock upsert body
type SetDailyStockRequest struct {
	ProductID  uuid.UUID `json:"product_id"`
	InitialQty int       `json:"initial_qty"`
}

// CreateDailyStock resets today's counters for a product (staff only)
// POST /api/v1/stock
func (h *CatalogHandler) CreateDailyStock(c *fiber.Ctx) error {
	var req SetDailyStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.InitialQty < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "initial_qty must not be negative"})
	}

	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	stock, err := h.service.SetDailyStock(req.ProductID, req.InitialQty, userID.String())
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock updated", "data": stock})
}

// GetDailyStock lists stock rows for a date (default today, staff only)
// GET /api/v1/stock?date=YYYY-MM-DD
func (h *CatalogHandler) GetDailyStock(c *fiber.Ctx) error {
	stock, err := h.service.ListDailyStock(c.Query("date"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stock)
}
