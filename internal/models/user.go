// Package models contains data structures for the application's domain models.
package models

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultPhoto is the profile photo assigned when a user uploads none.
const DefaultPhoto = "/static/img/someguy.jpg"

// Principal is the identity capability the web layer needs from a user:
// whether it is authenticated and the key it is stored under in a session.
type Principal interface {
	IsAuthenticated() bool
	SessionKey() string
	PrincipalID() uint
}

// User represents a registered account. UsernameKey holds the folded
// username so its unique index rejects names differing only in case.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:64;not null" json:"username"`
	UsernameKey string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Email       string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	JoinedAt    time.Time `gorm:"not null;index" json:"joined_at"`
	IsAdmin     bool      `gorm:"default:false" json:"is_admin"`
	Photo       string    `gorm:"size:512" json:"photo"`
}

// UsernameKey folds a username for lookups and the uniqueness constraint.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// BeforeCreate fills the username key, join time and default photo.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	u.UsernameKey = UsernameKey(u.Username)
	if u.JoinedAt.IsZero() {
		u.JoinedAt = time.Now().UTC()
	}
	if u.Photo == "" {
		u.Photo = DefaultPhoto
	}
	return nil
}

// IsAuthenticated reports true for any persisted user.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0
}

// SessionKey returns the user ID encoded for use as a token subject.
func (u *User) SessionKey() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// PrincipalID returns the surrogate user ID.
func (u *User) PrincipalID() uint {
	return u.ID
}

// Anonymous is the Principal of a request without valid credentials.
type Anonymous struct{}

func (Anonymous) IsAuthenticated() bool { return false }
func (Anonymous) SessionKey() string    { return "" }
func (Anonymous) PrincipalID() uint     { return 0 }
