package models

import "time"

// Playlist is an owner-curated set of videos.
type Playlist struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	OwnerID     uint      `gorm:"index;not null" json:"ownerId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"size:1024" json:"description"`
	Videos      []Video   `gorm:"many2many:playlist_videos;" json:"videos,omitempty"`
}

// PlaylistVideo is the join row between playlists and videos. The composite
// primary key gives add-to-set semantics: adding the same video twice is a
// unique-key no-op, never a duplicate entry.
type PlaylistVideo struct {
	PlaylistID uint      `gorm:"primaryKey"`
	VideoID    uint      `gorm:"primaryKey"`
	CreatedAt  time.Time
}
