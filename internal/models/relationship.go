package models

import (
	"time"
)

// Relationship is a directed follow edge: FromUser follows ToUser.
type Relationship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;uniqueIndex:idx_relationship_pair,priority:1" json:"from_user_id"`
	ToUserID   uint      `gorm:"not null;uniqueIndex:idx_relationship_pair,priority:2;index:idx_relationship_to" json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnDelete:RESTRICT" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name for GORM
func (Relationship) TableName() string {
	return "relationships"
}
