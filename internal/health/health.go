package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status string           `json:"status"`
	DB     DependencyStatus `json:"db"`
}

// DependencyStatus represents the status of a dependency
type DependencyStatus struct {
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
}

// RegisterHealthRoutes registers the liveness and readiness routes.
// /healthz answers as long as the process is up; /readyz also pings
// the database and reports 503 when it is unreachable.
func RegisterHealthRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/readyz", func(c *fiber.Ctx) error {
		dbStatus := checkDB(db)

		status := "ok"
		if dbStatus.Status != "ok" {
			status = dbStatus.Status
		}

		if status == "down" {
			c.Status(fiber.StatusServiceUnavailable)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(HealthResponse{
			Status: status,
			DB:     dbStatus,
		})
	})
}

// checkDB pings the shared database handle
func checkDB(db *gorm.DB) DependencyStatus {
	start := time.Now()

	sqlDB, err := db.DB()
	if err != nil {
		return DependencyStatus{
			Status:    "down",
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	err = sqlDB.Ping()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return DependencyStatus{
			Status:    "down",
			LatencyMs: latency,
		}
	}

	// Slow but reachable still serves traffic
	if latency > 200 {
		return DependencyStatus{
			Status:    "degraded",
			LatencyMs: latency,
		}
	}

	return DependencyStatus{
		Status:    "ok",
		LatencyMs: latency,
	}
}
