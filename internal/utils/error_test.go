package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseFor(t *testing.T, handler fiber.Handler) (int, ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed ErrorResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	return resp.StatusCode, parsed
}

func TestSendValidationError(t *testing.T) {
	status, body := responseFor(t, func(c *fiber.Ctx) error {
		return SendValidationError(c, "audio", "file type not allowed")
	})

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, "audio: file type not allowed", body.Details)
}

func TestSendNotFoundError(t *testing.T) {
	status, body := responseFor(t, func(c *fiber.Ctx) error {
		return SendNotFoundError(c, "Track")
	})

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Track does not exist", body.Details)
}

func TestSendInternalServerError(t *testing.T) {
	status, body := responseFor(t, func(c *fiber.Ctx) error {
		return SendInternalServerError(c, "storage write failed")
	})

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "storage write failed", body.Details)
}
