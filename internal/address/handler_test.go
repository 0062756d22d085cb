package address

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

func TestAddressRoutes(t *testing.T) {
	repo := NewInMemoryRepository()
	if _, err := repo.Create(Address{UserID: 42, Label: "home", Recipient: "Amina B", Line: "12 rue des Orangers", City: "Rabat", Country: "MA", Phone: "0600000000"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	app := makeApp(NewHandler(NewService(repo)))

	// unauthorized
	req := httptest.NewRequest("GET", "/api/v1/addresses", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// authorized GET returns the seeded address
	req = httptest.NewRequest("GET", "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "12 rue des Orangers") {
		t.Fatalf("unexpected body: %s", string(b))
	}

	// another user must not see it
	req = httptest.NewRequest("GET", "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "99")
	res, _ = app.Test(req)
	b, _ = io.ReadAll(res.Body)
	if strings.Contains(string(b), "12 rue des Orangers") {
		t.Fatalf("address leaked across users: %s", string(b))
	}

	// create
	body := `{"label":"work","recipient":"Amina B","line":"Technopark","city":"Casablanca","country":"MA","phone":"0611111111"}`
	req = httptest.NewRequest("POST", "/api/v1/addresses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	// create with missing fields fails validation
	req = httptest.NewRequest("POST", "/api/v1/addresses", strings.NewReader(`{"label":"work"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}

	// updating someone else's address is a 404
	req = httptest.NewRequest("PUT", "/api/v1/addresses/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "99")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}

	// delete own address
	req = httptest.NewRequest("DELETE", "/api/v1/addresses/1", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res.StatusCode)
	}
	req = httptest.NewRequest("GET", "/api/v1/addresses", nil)
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	b, _ = io.ReadAll(res.Body)
	if strings.Contains(string(b), "12 rue des Orangers") {
		t.Fatalf("delete did not remove entry: %s", string(b))
	}
}
