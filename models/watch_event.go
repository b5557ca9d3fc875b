package models

import "time"

// WatchEvent records that a user opened a video. Append-only; the watch
// history endpoint is a projection over these rows.
type WatchEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	VideoID   uint      `gorm:"index;not null" json:"videoId"`
	Video     *Video    `gorm:"foreignKey:VideoID" json:"video,omitempty"`
}
