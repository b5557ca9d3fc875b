package models

import "time"

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	OwnerID   uint      `gorm:"index;not null" json:"ownerId"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Content   string    `gorm:"not null" json:"content"`
}
