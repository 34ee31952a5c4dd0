package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, target string) (page, perPage, status int, requested bool) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		requested = Requested(c)
		page, perPage = GetPaginationParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	return page, perPage, resp.StatusCode, requested
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	page, perPage, _, _ := paramsFor(t, "/")
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)
}

func TestGetPaginationParamsClamping(t *testing.T) {
	_, perPage, _, _ := paramsFor(t, "/?per_page=0")
	assert.Equal(t, 1, perPage, "per_page=0 clamps to 1")

	_, perPage, _, _ = paramsFor(t, "/?per_page=500")
	assert.Equal(t, MaxPerPage, perPage, "per_page=500 clamps to 100")

	page, _, _, _ := paramsFor(t, "/?page=-3")
	assert.Equal(t, 1, page)
}

func TestRequested(t *testing.T) {
	_, _, _, requested := paramsFor(t, "/")
	assert.False(t, requested)

	_, _, _, requested = paramsFor(t, "/?paginate=1")
	assert.True(t, requested)

	_, _, _, requested = paramsFor(t, "/?page=2")
	assert.True(t, requested)

	_, _, _, requested = paramsFor(t, "/?per_page=25")
	assert.True(t, requested)

	// A sort parameter alone does not trigger pagination
	_, _, _, requested = paramsFor(t, "/?sort_by=title")
	assert.False(t, requested)
}

func TestCalculate(t *testing.T) {
	meta := Calculate(45, 2, 10)
	assert.Equal(t, int64(45), meta.TotalCount)
	assert.Equal(t, 5, meta.TotalPages)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.True(t, meta.HasPrevious)
	assert.True(t, meta.HasNext)

	meta = Calculate(45, 5, 10)
	assert.False(t, meta.HasNext)

	meta = Calculate(0, 1, 10)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasPrevious)
	assert.False(t, meta.HasNext)
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, CalculateOffset(1, 10))
	assert.Equal(t, 30, CalculateOffset(4, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}
