package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a short, immutable status message authored by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Timestamp time.Time `gorm:"not null;index:idx_posts_user_ts,priority:2" json:"timestamp"`
	UserID    uint      `gorm:"not null;index:idx_posts_user_ts,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
}

// BeforeCreate stamps the post with the current time when none was given.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	return nil
}
