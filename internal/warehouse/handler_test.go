package warehouse

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestWarehouseRoutes(t *testing.T) {
	repo := NewInMemoryRepository(seed())
	app := makeApp(NewHandler(NewService(repo)))

	// unauthorized
	req := httptest.NewRequest("POST", "/api/v1/warehouses/reserve", strings.NewReader(`{"product_id":7,"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// reserve within availability
	req = httptest.NewRequest("POST", "/api/v1/warehouses/reserve", strings.NewReader(`{"product_id":7,"quantity":12}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for reserve, got %d", res.StatusCode)
	}

	// a second reserve beyond what's left conflicts
	req = httptest.NewRequest("POST", "/api/v1/warehouses/reserve", strings.NewReader(`{"product_id":7,"quantity":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for oversized reserve, got %d", res.StatusCode)
	}

	// confirm the pick
	req = httptest.NewRequest("POST", "/api/v1/warehouses/confirm", strings.NewReader(`{"product_id":7,"quantity":12}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for confirm, got %d", res.StatusCode)
	}
	if got := repo.ProductStock(7); got != 2 {
		t.Fatalf("aggregate stock = %d, want 2 after confirm", got)
	}

	// per-warehouse listing
	req = httptest.NewRequest("GET", "/api/v1/products/7/warehouses", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for list, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "casablanca") {
		t.Fatalf("unexpected body: %s", string(b))
	}

	// zero quantity fails validation
	req = httptest.NewRequest("POST", "/api/v1/warehouses/release", strings.NewReader(`{"product_id":7,"quantity":0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
}
