package models

import "time"

// User is the durable principal. Username and email are stored lowercased and
// are unique at the schema level. RefreshToken holds the single currently
// valid refresh token for the account (empty = no live session); it is
// overwritten on every login/rotation and cleared on logout.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Username      string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName      string    `gorm:"size:255;not null" json:"fullName"`
	Avatar        string    `gorm:"size:512;not null" json:"avatar"`
	AvatarKey     string    `gorm:"size:512" json:"-"`
	CoverImage    string    `gorm:"size:512" json:"coverImage"`
	CoverImageKey string    `gorm:"size:512" json:"-"`
	PasswordHash  []byte    `json:"-"`
	RefreshToken  string    `gorm:"size:1024" json:"-"`
}
