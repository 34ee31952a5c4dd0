package health

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatfolio/internal/test"
)

func TestLivenessAlwaysOK(t *testing.T) {
	db, tearDown := test.GetTestDB(t)
	t.Cleanup(tearDown)

	app := fiber.New()
	RegisterHealthRoutes(app, db)

	req := httptest.NewRequest("GET", "/healthz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestReadinessReportsDatabase(t *testing.T) {
	db, tearDown := test.GetTestDB(t)
	t.Cleanup(tearDown)

	app := fiber.New()
	RegisterHealthRoutes(app, db)

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed HealthResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Contains(t, []string{"ok", "degraded"}, parsed.Status)
	assert.Contains(t, []string{"ok", "degraded"}, parsed.DB.Status)
}

func TestReadinessFailsWhenDatabaseGone(t *testing.T) {
	db, tearDown := test.GetTestDB(t)

	app := fiber.New()
	RegisterHealthRoutes(app, db)

	// Close the underlying pool so the ping fails
	tearDown()

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed HealthResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "down", parsed.Status)
	assert.Equal(t, "down", parsed.DB.Status)
}
