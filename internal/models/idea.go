package models

import "time"

// MaxIdeaIDLen bounds externally supplied idea identifiers.
const MaxIdeaIDLen = 1024

// Idea is a comment or question attached to a project through its external
// ProjectID. The author is a real reference to users.
type Idea struct {
	ID          string    `gorm:"primaryKey;size:1024" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user"`
	ForProject  int       `gorm:"not null;index" json:"for_project"`
	Title       string    `gorm:"size:2048" json:"title"`
	Description string    `gorm:"size:2048;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
