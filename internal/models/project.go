package models

import "time"

// MaxProjectTextLen bounds project names and descriptions.
const MaxProjectTextLen = 2048

// Project is the primary post-like content rendered on streams. ProjectID is
// an externally supplied identifier, distinct from the surrogate ID.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   int       `gorm:"uniqueIndex;not null" json:"project_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"user"`
	Name        string    `gorm:"size:2048" json:"name"`
	Description string    `gorm:"size:2048;not null" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
