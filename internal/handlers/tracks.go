package handlers

import (
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"beatfolio/internal/models"
	"beatfolio/internal/pagination"
	"beatfolio/internal/services"
	"beatfolio/internal/utils"
)

// TrackHandler handles track CRUD and listing requests
type TrackHandler struct {
	repo *services.Repository
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(repo *services.Repository) *TrackHandler {
	return &TrackHandler{
		repo: repo,
	}
}

func trackFilterFromQuery(c *fiber.Ctx, onlyDeleted bool) services.TrackFilter {
	return services.TrackFilter{
		Title:           c.Query("title"),
		Artist:          c.Query("artist"),
		Genre:           c.Query("genre"),
		ReleaseDateFrom: c.Query("release_date_from"),
		ReleaseDateTo:   c.Query("release_date_to"),
		Search:          c.Query("search"),
		SortBy:          c.Query("sort_by"),
		SortDir:         c.Query("sort_dir"),
		OnlyDeleted:     onlyDeleted,
	}
}

// respondWithTrackList returns either the full result set as a bare array
// or a paginated envelope, depending on the request.
func (h *TrackHandler) respondWithTrackList(c *fiber.Ctx, f services.TrackFilter) error {
	if pagination.Requested(c) {
		page, perPage := pagination.GetPaginationParams(c)
		tracks, total, err := h.repo.ListTracksPage(f, page, perPage)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to fetch tracks")
		}
		return c.JSON(fiber.Map{
			"data":  tracks,
			"meta":  pagination.Calculate(total, page, perPage),
			"query": f.QueryParams(),
		})
	}

	tracks, err := h.repo.ListTracks(f)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to fetch tracks")
	}
	return c.JSON(tracks)
}

// GetTracks handles listing with optional filters, sorting, and pagination
func (h *TrackHandler) GetTracks(c *fiber.Ctx) error {
	return h.respondWithTrackList(c, trackFilterFromQuery(c, false))
}

// GetDeletedTracks lists only soft-deleted tracks (admin recovery view)
func (h *TrackHandler) GetDeletedTracks(c *fiber.Ctx) error {
	return h.respondWithTrackList(c, trackFilterFromQuery(c, true))
}

// GetFeaturedTracks lists tracks flagged as featured
func (h *TrackHandler) GetFeaturedTracks(c *fiber.Ctx) error {
	tracks, err := h.repo.ListFeatured()
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to fetch featured tracks")
	}
	return c.JSON(tracks)
}

// GetTracksByGenre lists tracks whose genre contains the path segment
func (h *TrackHandler) GetTracksByGenre(c *fiber.Ctx) error {
	genre, err := url.PathUnescape(c.Params("genre"))
	if err != nil {
		genre = c.Params("genre")
	}
	tracks, err := h.repo.ListByGenre(genre)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to fetch tracks by genre")
	}
	return c.JSON(tracks)
}

// GetTrack returns a single track by id
func (h *TrackHandler) GetTrack(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	track, err := h.repo.GetTrackByID(id)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}
	return c.JSON(track)
}

type createTrackRequest struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description *string `json:"description"`
	Genre       string  `json:"genre"`
	ImageURL    string  `json:"image_url"`
	AudioURL    *string `json:"audio_url"`
	YoutubeLink *string `json:"youtube_link"`
	SpotifyLink *string `json:"spotify_link"`
	Duration    *string `json:"duration"`
	ReleaseDate string  `json:"release_date"`
	Featured    bool    `json:"featured"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// CreateTrack validates and persists a new track. The artist name is
// resolved to its canonical casing before the write.
func (h *TrackHandler) CreateTrack(c *fiber.Ctx) error {
	var req createTrackRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendValidationError(c, "body", "invalid request payload")
	}

	switch {
	case req.Title == "" || len(req.Title) > 255:
		return utils.SendValidationError(c, "title", "a title of at most 255 characters is required")
	case req.Artist == "" || len(req.Artist) > 255:
		return utils.SendValidationError(c, "artist", "an artist of at most 255 characters is required")
	case req.Genre == "" || len(req.Genre) > 500:
		return utils.SendValidationError(c, "genre", "a genre of at most 500 characters is required")
	case req.ImageURL == "":
		return utils.SendValidationError(c, "image_url", "an image URL is required")
	case !validDate(req.ReleaseDate):
		return utils.SendValidationError(c, "release_date", "a release date in YYYY-MM-DD form is required")
	}
	if req.Duration != nil && len(*req.Duration) > 20 {
		return utils.SendValidationError(c, "duration", "must be at most 20 characters")
	}
	if req.YoutubeLink != nil && *req.YoutubeLink != "" && !validURL(*req.YoutubeLink) {
		return utils.SendValidationError(c, "youtube_link", "must be a valid URL")
	}
	if req.SpotifyLink != nil && *req.SpotifyLink != "" && !validURL(*req.SpotifyLink) {
		return utils.SendValidationError(c, "spotify_link", "must be a valid URL")
	}

	track := models.Track{
		Title:       req.Title,
		Artist:      h.repo.ResolveCanonicalArtist(req.Artist, nil),
		Description: req.Description,
		Genre:       req.Genre,
		ImageURL:    req.ImageURL,
		AudioURL:    req.AudioURL,
		YoutubeLink: req.YoutubeLink,
		SpotifyLink: req.SpotifyLink,
		Duration:    req.Duration,
		ReleaseDate: req.ReleaseDate,
		Featured:    req.Featured,
	}

	if err := h.repo.CreateTrack(&track); err != nil {
		return utils.SendInternalServerError(c, "Failed to create track")
	}
	return c.Status(fiber.StatusCreated).JSON(track)
}

// UpdateTrack applies a partial update: only the fields present in the
// payload change. A present artist field goes through canonical casing
// resolution, excluding the track's own row.
func (h *TrackHandler) UpdateTrack(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	track, err := h.repo.GetTrackByID(id)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return utils.SendValidationError(c, "body", "invalid request payload")
	}

	updates, fieldErr := buildTrackUpdates(raw)
	if fieldErr != nil {
		return utils.SendValidationError(c, fieldErr.field, fieldErr.message)
	}

	if rawArtist, ok := raw["artist"]; ok {
		var artist string
		if json.Unmarshal(rawArtist, &artist) != nil || artist == "" || len(artist) > 255 {
			return utils.SendValidationError(c, "artist", "must be a string of at most 255 characters")
		}
		updates["artist"] = h.repo.ResolveCanonicalArtist(artist, &track.ID)
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateTrack(track, updates); err != nil {
			return utils.SendInternalServerError(c, "Failed to update track")
		}
	}

	refreshed, err := h.repo.GetTrackByID(track.ID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to reload track")
	}
	return c.JSON(refreshed)
}

// fieldError carries a field-scoped validation failure back to the
// handler, which renders the response.
type fieldError struct {
	field   string
	message string
}

// buildTrackUpdates converts the present payload keys into a column
// update map, validating each value. The artist field is handled by the
// caller because it needs the track id for resolution.
func buildTrackUpdates(raw map[string]json.RawMessage) (map[string]interface{}, *fieldError) {
	updates := map[string]interface{}{}

	requiredStrings := map[string]int{"title": 255, "genre": 500, "image_url": 0}
	for field, max := range requiredStrings {
		msg, ok := raw[field]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(msg, &s) != nil || s == "" || (max > 0 && len(s) > max) {
			return nil, &fieldError{field, "must be a non-empty string"}
		}
		updates[field] = s
	}

	nullableStrings := map[string]int{
		"description":  0,
		"audio_url":    0,
		"youtube_link": 0,
		"spotify_link": 0,
		"duration":     20,
	}
	for field, max := range nullableStrings {
		msg, ok := raw[field]
		if !ok {
			continue
		}
		var s *string
		if json.Unmarshal(msg, &s) != nil {
			return nil, &fieldError{field, "must be a string or null"}
		}
		if s != nil && max > 0 && len(*s) > max {
			return nil, &fieldError{field, "must be at most " + strconv.Itoa(max) + " characters"}
		}
		updates[field] = s
	}

	if msg, ok := raw["release_date"]; ok {
		var s string
		if json.Unmarshal(msg, &s) != nil || !validDate(s) {
			return nil, &fieldError{"release_date", "must be a date in YYYY-MM-DD form"}
		}
		updates["release_date"] = s
	}

	if msg, ok := raw["featured"]; ok {
		var b bool
		if json.Unmarshal(msg, &b) != nil {
			return nil, &fieldError{"featured", "must be a boolean"}
		}
		updates["featured"] = b
	}

	if msg, ok := raw["plays"]; ok {
		var n int
		if json.Unmarshal(msg, &n) != nil {
			return nil, &fieldError{"plays", "must be an integer"}
		}
		updates["plays"] = n
	}

	return updates, nil
}

// DeleteTrack soft-deletes a track so it can be restored later
func (h *TrackHandler) DeleteTrack(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	track, err := h.repo.GetTrackByID(id)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	if err := h.repo.SoftDeleteTrack(track); err != nil {
		return utils.SendInternalServerError(c, "Failed to delete track")
	}
	return c.JSON(fiber.Map{"message": "Track moved to recovery successfully"})
}

// RestoreTrack clears a track's soft-delete marker
func (h *TrackHandler) RestoreTrack(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	track, err := h.repo.GetDeletedTrackByID(id)
	if err != nil {
		return utils.SendNotFoundError(c, "Track")
	}

	restored, err := h.repo.RestoreTrack(track)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to restore track")
	}

	return c.JSON(fiber.Map{
		"message": "Track restored successfully",
		"track":   restored,
	})
}
