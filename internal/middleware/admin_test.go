package middleware

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Post("/guarded", AdminToken(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestAdminTokenAcceptsHeader(t *testing.T) {
	app := newGatedApp("s3cret")

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("X-Admin-Token", "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminTokenAcceptsFormFallback(t *testing.T) {
	app := newGatedApp("s3cret")

	form := url.Values{"admin_token": {"s3cret"}}
	req := httptest.NewRequest("POST", "/guarded", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminTokenRejectsMissingToken(t *testing.T) {
	app := newGatedApp("s3cret")

	resp, err := app.Test(httptest.NewRequest("POST", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminTokenRejectsWrongToken(t *testing.T) {
	app := newGatedApp("s3cret")

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("X-Admin-Token", "wrong")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminTokenRejectsEverythingWhenSecretUnset(t *testing.T) {
	app := newGatedApp("")

	req := httptest.NewRequest("POST", "/guarded", nil)
	req.Header.Set("X-Admin-Token", "")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
