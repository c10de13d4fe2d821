package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// run executes fn inside a real request context.
func run(t *testing.T, fn func(c *fiber.Ctx)) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		fn(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestGetUserID(t *testing.T) {
	want := uuid.New()
	run(t, func(c *fiber.Ctx) {
		c.Locals("user_id", want.String())
		got, err := getUserID(c)
		if err != nil {
			t.Errorf("get user id failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}

func TestGetUserIDMissingLocal(t *testing.T) {
	run(t, func(c *fiber.Ctx) {
		if _, err := getUserID(c); err == nil {
			t.Error("expected an error when no user is set")
		}
	})
}

func TestGetUserIDNonStringLocal(t *testing.T) {
	// A malformed local must come back as an error, never a panic.
	run(t, func(c *fiber.Ctx) {
		c.Locals("user_id", 42)
		if _, err := getUserID(c); err == nil {
			t.Error("expected an error for a non-string local")
		}
	})
}

func TestGetUserRoleNonString(t *testing.T) {
	run(t, func(c *fiber.Ctx) {
		c.Locals("user_role", 42)
		if role := getUserRole(c); role != "" {
			t.Errorf("expected empty role, got %q", role)
		}
	})
}
