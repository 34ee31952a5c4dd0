package pagination

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultPerPage is applied when no per_page parameter is supplied
	DefaultPerPage = 10
	// MaxPerPage caps the page size
	MaxPerPage = 100
)

// Metadata represents the pagination metadata returned in list envelopes
type Metadata struct {
	TotalCount  int64 `json:"totalCount"`
	PerPage     int   `json:"perPage"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// Requested reports whether the request asked for a paginated response,
// either via a truthy paginate flag or by supplying page/per_page.
func Requested(c *fiber.Ctx) bool {
	return c.QueryBool("paginate") ||
		len(c.Request().URI().QueryArgs().Peek("page")) > 0 ||
		len(c.Request().URI().QueryArgs().Peek("per_page")) > 0
}

// GetPaginationParams extracts page and per_page from the request.
// per_page is clamped to [1, MaxPerPage].
func GetPaginationParams(c *fiber.Ctx) (page int, perPage int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	perPage = c.QueryInt("per_page", DefaultPerPage)
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return page, perPage
}

// CalculateOffset calculates the offset for database queries
func CalculateOffset(page, perPage int) int {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return (page - 1) * perPage
}

// Calculate builds the pagination metadata for a given total count, page,
// and page size
func Calculate(totalCount int64, page, perPage int) Metadata {
	totalPages := int(math.Ceil(float64(totalCount) / float64(perPage)))
	if totalPages < 0 {
		totalPages = 0
	}

	hasPrevious := page > 1
	hasNext := page < totalPages

	if totalCount == 0 {
		hasPrevious = false
		hasNext = false
	}

	return Metadata{
		TotalCount:  totalCount,
		PerPage:     perPage,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasPrevious: hasPrevious,
		HasNext:     hasNext,
	}
}
