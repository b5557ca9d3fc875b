package models

import "time"

// Video is an uploaded video asset. OwnerID is set at creation and never
// reassigned; unpublished videos are drafts visible only to the owner.
type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	OwnerID      uint      `gorm:"index;not null" json:"ownerId"`
	Owner        *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	VideoFile    string    `gorm:"size:512;not null" json:"videoFile"`
	VideoFileKey string    `gorm:"size:512" json:"-"`
	Thumbnail    string    `gorm:"size:512;not null" json:"thumbnail"`
	ThumbnailKey string    `gorm:"size:512" json:"-"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	Duration     float64   `gorm:"not null" json:"duration"` // seconds
	Views        int64     `gorm:"not null;default:0" json:"views"`
	Published    bool      `gorm:"not null;default:true" json:"published"`
}
