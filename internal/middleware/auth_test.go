package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/utils"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JWT(secret), AttachJWTLocals(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userId").(string) + ":" + c.Locals("role").(string))
	})
	app.Get("/admin", JWT(secret), RequireRoles("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func token(t *testing.T, key, role string) string {
	t.Helper()
	tok, err := utils.SignJWT(key, "user-1", role, 5)
	require.NoError(t, err)
	return tok
}

func TestJWTAcceptsBearerAndCookie(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, secret, "Admin"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "user-1:admin", string(body))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token(t, secret, "client")})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJWTRejectsMissingOrForeignTokens(t *testing.T) {
	app := newApp()
	cases := map[string]string{
		"missing":      "",
		"wrong secret": "Bearer " + token(t, "other", "admin"),
		"garbage":      "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	app := newApp()
	for role, want := range map[string]int{
		"admin":      http.StatusNoContent,
		"client":     http.StatusForbidden,
		"freelancer": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, secret, role))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
	}
}
