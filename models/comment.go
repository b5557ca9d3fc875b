package models

import "time"

// Comment on a video.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   uint      `gorm:"index;not null" json:"ownerId"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	VideoID   uint      `gorm:"index;not null" json:"videoId"`
	Content   string    `gorm:"not null" json:"content"`
}
