package services

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"beatfolio/internal/models"
)

// dateLiteral matches a bare YYYY-MM-DD search term
var dateLiteral = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// sortColumns is the allow-list of sortable fields. Anything else falls
// back to release_date.
var sortColumns = map[string]string{
	"id":           "id",
	"title":        "title",
	"artist":       "artist",
	"genre":        "genre",
	"release_date": "release_date",
	"created_at":   "created_at",
	"deleted_at":   "deleted_at",
}

// TrackFilter carries the typed filter, sort, and scope parameters for
// track listings. All fields are optional; zero values mean "not set".
type TrackFilter struct {
	Title           string
	Artist          string
	Genre           string
	ReleaseDateFrom string
	ReleaseDateTo   string
	Search          string
	SortBy          string
	SortDir         string
	OnlyDeleted     bool
}

// sortKey returns the effective sort column, falling back to release_date
// for unknown fields.
func (f TrackFilter) sortKey() string {
	if col, ok := sortColumns[f.SortBy]; ok {
		return col
	}
	return "release_date"
}

// sortDirection returns the effective sort direction, falling back to desc.
func (f TrackFilter) sortDirection() string {
	dir := strings.ToLower(f.SortDir)
	if dir != "asc" && dir != "desc" {
		return "desc"
	}
	return dir
}

// QueryParams echoes the applied parameters for paginated envelopes.
func (f TrackFilter) QueryParams() map[string]string {
	params := map[string]string{
		"sort_by":  f.sortKey(),
		"sort_dir": f.sortDirection(),
	}
	if f.Title != "" {
		params["title"] = f.Title
	}
	if f.Artist != "" {
		params["artist"] = f.Artist
	}
	if f.Genre != "" {
		params["genre"] = f.Genre
	}
	if f.ReleaseDateFrom != "" {
		params["release_date_from"] = f.ReleaseDateFrom
	}
	if f.ReleaseDateTo != "" {
		params["release_date_to"] = f.ReleaseDateTo
	}
	if f.Search != "" {
		params["search"] = f.Search
	}
	return params
}

// Repository handles database operations for tracks
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetDB returns the underlying GORM instance
func (r *Repository) GetDB() *gorm.DB {
	return r.db
}

// containsPattern builds a case-insensitive substring LIKE pattern. The
// value itself is always bound as a parameter, never concatenated into SQL.
func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// buildFilteredQuery applies the scope and filter predicates, without
// ordering. Filters combine with AND; search is internally OR'd across
// title, artist, and genre, plus an exact release_date match when the term
// is a date literal.
func (r *Repository) buildFilteredQuery(f TrackFilter) *gorm.DB {
	q := r.db.Model(&models.Track{})
	if f.OnlyDeleted {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}

	if f.Title != "" {
		q = q.Where("LOWER(title) LIKE ?", containsPattern(f.Title))
	}
	if f.Artist != "" {
		q = q.Where("LOWER(artist) LIKE ?", containsPattern(f.Artist))
	}
	if f.Genre != "" {
		q = q.Where("LOWER(genre) LIKE ?", containsPattern(strings.TrimSpace(f.Genre)))
	}
	if f.ReleaseDateFrom != "" {
		q = q.Where("release_date >= ?", f.ReleaseDateFrom)
	}
	if f.ReleaseDateTo != "" {
		q = q.Where("release_date <= ?", f.ReleaseDateTo)
	}

	if f.Search != "" {
		term := strings.TrimSpace(f.Search)
		pattern := containsPattern(term)
		cond := r.db.
			Where("LOWER(title) LIKE ?", pattern).
			Or("LOWER(artist) LIKE ?", pattern).
			Or("LOWER(genre) LIKE ?", pattern)
		if dateLiteral.MatchString(term) {
			cond = cond.Or("release_date = ?", term)
		}
		q = q.Where(cond)
	}

	return q
}

// applySort orders by the allow-listed sort key with an id DESC tiebreak,
// keeping pagination stable when the primary key has duplicates.
func applySort(q *gorm.DB, f TrackFilter) *gorm.DB {
	return q.Order(fmt.Sprintf("%s %s, id DESC", f.sortKey(), f.sortDirection()))
}

// ListTracks returns the full filtered and sorted result set.
func (r *Repository) ListTracks(f TrackFilter) ([]models.Track, error) {
	var tracks []models.Track
	err := applySort(r.buildFilteredQuery(f), f).Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks: %w", err)
	}
	return tracks, nil
}

// ListTracksPage returns one page of the filtered result set plus the
// total count before paging.
func (r *Repository) ListTracksPage(f TrackFilter, page, perPage int) ([]models.Track, int64, error) {
	var total int64
	if err := r.buildFilteredQuery(f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	var tracks []models.Track
	offset := (page - 1) * perPage
	err := applySort(r.buildFilteredQuery(f), f).
		Offset(offset).
		Limit(perPage).
		Find(&tracks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tracks: %w", err)
	}

	return tracks, total, nil
}

// ListFeatured returns tracks flagged as featured.
func (r *Repository) ListFeatured() ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.Where("featured = ?", true).Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured tracks: %w", err)
	}
	return tracks, nil
}

// ListByGenre returns tracks whose genre contains the given term,
// case-insensitively.
func (r *Repository) ListByGenre(genre string) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Where("LOWER(genre) LIKE ?", containsPattern(strings.TrimSpace(genre))).
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracks by genre: %w", err)
	}
	return tracks, nil
}

// GetTrackByID returns a live (non-deleted) track.
func (r *Repository) GetTrackByID(id int64) (*models.Track, error) {
	var track models.Track
	err := r.db.First(&track, id).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// GetDeletedTrackByID returns a soft-deleted track.
func (r *Repository) GetDeletedTrackByID(id int64) (*models.Track, error) {
	var track models.Track
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		First(&track, id).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// CreateTrack persists a new track.
func (r *Repository) CreateTrack(track *models.Track) error {
	return r.db.Create(track).Error
}

// UpdateTrack applies a partial update. Only the keys present in updates
// change; gorm maintains updated_at.
func (r *Repository) UpdateTrack(track *models.Track, updates map[string]interface{}) error {
	return r.db.Model(track).Updates(updates).Error
}

// SoftDeleteTrack marks the track deleted. The row stays in the table with
// deleted_at set and disappears from default scopes.
func (r *Repository) SoftDeleteTrack(track *models.Track) error {
	return r.db.Delete(track).Error
}

// RestoreTrack clears the soft-delete marker and returns the refreshed row.
func (r *Repository) RestoreTrack(track *models.Track) (*models.Track, error) {
	err := r.db.Unscoped().
		Model(track).
		Update("deleted_at", nil).Error
	if err != nil {
		return nil, fmt.Errorf("failed to restore track: %w", err)
	}
	return r.GetTrackByID(track.ID)
}

// ResolveCanonicalArtist resolves an artist name to the earliest-stored
// casing variant matching case-insensitively, across live and soft-deleted
// rows. excludeID skips the record being updated so it cannot match
// itself. A whitespace-only candidate is returned unmodified.
//
// Two near-simultaneous creates of a brand-new artist name can race and
// persist two casings; at this catalog's scale the window is accepted
// rather than serialized.
func (r *Repository) ResolveCanonicalArtist(name string, excludeID *int64) string {
	normalized := strings.Join(strings.Fields(name), " ")
	if normalized == "" {
		return name
	}

	q := r.db.Unscoped().
		Model(&models.Track{}).
		Where("LOWER(artist) = ?", strings.ToLower(normalized))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var artists []string
	if err := q.Order("id ASC").Limit(1).Pluck("artist", &artists).Error; err == nil && len(artists) > 0 {
		if existing := strings.TrimSpace(artists[0]); existing != "" {
			return existing
		}
	}

	return normalized
}
