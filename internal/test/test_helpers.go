package test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"beatfolio/internal/models"
)

// GetTestDB creates an in-memory SQLite database with the tracks schema.
// Each test gets its own named shared-cache database so the connection
// pool sees one store without leaking state between tests.
func GetTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Track{}))

	tearDown := func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}

	return db, tearDown
}

// StrPtr returns a pointer to the given string, for optional track fields.
func StrPtr(s string) *string { return &s }

// MakeTrack builds a valid track with the given overrides applied.
func MakeTrack(title, artist, genre, releaseDate string) models.Track {
	return models.Track{
		Title:       title,
		Artist:      artist,
		Genre:       genre,
		ImageURL:    "/storage/covers/" + title + ".webp",
		ReleaseDate: releaseDate,
	}
}
