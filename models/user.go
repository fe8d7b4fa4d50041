package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `gorm:"type:text" json:"bio"`

	// ProfilePicKey is the S3 object key, kept so the object can be deleted later.
	ProfilePic    string `json:"profilePic"`
	ProfilePicKey string `json:"-"`

	Verified       bool      `json:"verified"`
	VerifyToken    string    `gorm:"index" json:"-"`
	VerifyTokenExp time.Time `json:"-"`
	ResetToken     string    `gorm:"index" json:"-"`
	ResetTokenExp  time.Time `json:"-"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Public returns the profile fields safe to show to other users.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"email":      u.Email,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"bio":        u.Bio,
		"profilePic": u.ProfilePic,
		"createdAt":  u.CreatedAt,
	}
}
