package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the public and admin-gated API routes. The admin
// chain (token gate, optionally a rate limiter) runs before every mutating
// and upload endpoint plus the recovery view.
func RegisterRoutes(app *fiber.App, tracks *TrackHandler, uploads *UploadHandler, admin ...fiber.Handler) {
	api := app.Group("/api")

	gated := func(handler fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, admin...), handler)
	}

	api.Get("/tracks", tracks.GetTracks)
	api.Get("/tracks/deleted", gated(tracks.GetDeletedTracks)...)
	api.Get("/tracks/featured", tracks.GetFeaturedTracks)
	api.Get("/tracks/genre/:genre", tracks.GetTracksByGenre)
	api.Get("/tracks/:id", tracks.GetTrack)

	api.Post("/tracks", gated(tracks.CreateTrack)...)
	api.Put("/tracks/:id", gated(tracks.UpdateTrack)...)
	api.Delete("/tracks/:id", gated(tracks.DeleteTrack)...)
	api.Post("/tracks/:id/restore", gated(tracks.RestoreTrack)...)

	api.Post("/upload/cover", gated(uploads.UploadCover)...)
	api.Post("/upload/audio", gated(uploads.UploadAudio)...)
}
