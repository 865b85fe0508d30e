package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func privilegedApp(privileges []string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_privileges", privileges)
		return c.Next()
	})
	app.Get("/products", RequirePrivilege("product:view"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/dashboard", RequireAnyPrivilege("dashboard:view", "report:export"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func requestStatus(t *testing.T, app *fiber.App, path string) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRequirePrivilege(t *testing.T) {
	// An order-only grant (the customer set) must not open the catalog
	app := privilegedApp([]string{"order:view", "order:create"})
	if got := requestStatus(t, app, "/products"); got != fiber.StatusForbidden {
		t.Errorf("status without product:view = %d, want 403", got)
	}

	app = privilegedApp([]string{"product:view"})
	if got := requestStatus(t, app, "/products"); got != fiber.StatusOK {
		t.Errorf("status with product:view = %d, want 200", got)
	}
}

func TestRequireAnyPrivilege(t *testing.T) {
	app := privilegedApp([]string{"report:export"})
	if got := requestStatus(t, app, "/dashboard"); got != fiber.StatusOK {
		t.Errorf("status with one matching privilege = %d, want 200", got)
	}

	app = privilegedApp([]string{"order:view"})
	if got := requestStatus(t, app, "/dashboard"); got != fiber.StatusForbidden {
		t.Errorf("status with no matching privilege = %d, want 403", got)
	}
}

func TestRequirePrivilegeWithoutAuthContext(t *testing.T) {
	app := fiber.New()
	app.Get("/products", RequirePrivilege("product:view"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	if got := requestStatus(t, app, "/products"); got != fiber.StatusForbidden {
		t.Errorf("status without auth context = %d, want 403", got)
	}
}
