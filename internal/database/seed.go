package database

import (
	"gorm.io/gorm"

	"beatfolio/internal/logging"
	"beatfolio/internal/models"
)

func strPtr(s string) *string { return &s }

// SeedSampleCatalog inserts the sample catalog when the tracks table is
// empty. Intended for fresh development environments.
func SeedSampleCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Track{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logging.Infof("Tracks already exist, skipping seed")
		return nil
	}

	logging.Infof("Seeding sample catalog...")

	sampleTracks := []models.Track{
		{
			Title:       "Dreams & Nightmares",
			Artist:      "Anmi Beatz",
			Genre:       "hip-hop",
			ImageURL:    "/assets/images/music-covers/Cover2.jpg",
			AudioURL:    strPtr("/audio/Space Cake.wav"),
			YoutubeLink: strPtr("https://youtube.com/watch?v=YOUR_VIDEO_ID"),
			SpotifyLink: strPtr("https://open.spotify.com/track/YOUR_TRACK_ID"),
			ReleaseDate: "2024-01-15",
			Featured:    true,
			Plays:       125000,
			Duration:    strPtr("3:45"),
		},
		{
			Title:       "Midnight Vibes",
			Artist:      "Anmi Beatz",
			Genre:       "trap",
			ImageURL:    "/assets/images/music-covers/Cover3.jpg",
			AudioURL:    strPtr("/audio/Space Cake.wav"),
			YoutubeLink: strPtr("https://youtube.com/watch?v=YOUR_VIDEO_ID"),
			SpotifyLink: strPtr("https://open.spotify.com/track/YOUR_TRACK_ID"),
			ReleaseDate: "2024-01-10",
			Featured:    true,
			Plays:       98000,
			Duration:    strPtr("2:58"),
		},
		{
			Title:       "Urban Pulse",
			Artist:      "Anmi Beatz",
			Genre:       "hip-hop",
			ImageURL:    "/assets/images/music-covers/Cover4.jpg",
			AudioURL:    strPtr("/audio/Space Cake.wav"),
			YoutubeLink: strPtr("https://youtube.com/watch?v=YOUR_VIDEO_ID"),
			SpotifyLink: strPtr("https://open.spotify.com/track/YOUR_TRACK_ID"),
			ReleaseDate: "2024-01-05",
			Featured:    false,
			Plays:       75000,
			Duration:    strPtr("3:22"),
		},
		{
			Title:       "Neon Nights",
			Artist:      "Anmi Beatz",
			Genre:       "electronic",
			ImageURL:    "/assets/images/music-covers/Cover5.jpg",
			AudioURL:    strPtr("/audio/Space Cake.wav"),
			YoutubeLink: strPtr("https://youtube.com/watch?v=YOUR_VIDEO_ID"),
			SpotifyLink: strPtr("https://open.spotify.com/track/YOUR_TRACK_ID"),
			ReleaseDate: "2023-12-20",
			Featured:    false,
			Plays:       62000,
			Duration:    strPtr("3:10"),
		},
	}

	if err := db.Create(&sampleTracks).Error; err != nil {
		return err
	}

	logging.Infof("Seeded %d sample tracks", len(sampleTracks))
	return nil
}
