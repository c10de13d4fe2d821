package handler

import (
	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(s service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

// GetProfile returns the caller's profile and address
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	profile, address, err := h.service.GetProfile(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"profile": profile, "address": address})
}

// SaveProfileRequest represents the profile upsert body
type SaveProfileRequest struct {
	Profile model.Profile `json:"profile"`
	Address model.Address `json:"address"`
}

// SaveProfile upserts the caller's profile and (optionally) address
// PUT /api/v1/profile
func (h *ProfileHandler) SaveProfile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req SaveProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.SaveProfile(userID, &req.Profile, &req.Address); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Profile saved", "profile": req.Profile})
}
