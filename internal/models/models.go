package models

import (
	"time"

	"gorm.io/gorm"
)

// Track represents the tracks table. Release dates are stored as ISO
// "YYYY-MM-DD" strings so range filters and equality compare the same way
// on every supported database.
type Track struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Artist      string         `gorm:"size:255;not null;index" json:"artist"`
	Description *string        `json:"description"`
	Genre       string         `gorm:"size:500;not null" json:"genre"`
	ImageURL    string         `gorm:"not null" json:"image_url"`
	AudioURL    *string        `json:"audio_url"`
	YoutubeLink *string        `json:"youtube_link"`
	SpotifyLink *string        `json:"spotify_link"`
	Plays       int            `gorm:"default:0" json:"plays"`
	Duration    *string        `gorm:"size:20" json:"duration"`
	ReleaseDate string         `gorm:"size:10;not null;index" json:"release_date"`
	Featured    bool           `gorm:"default:false;index" json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

func (Track) TableName() string {
	return "tracks"
}
