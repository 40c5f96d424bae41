package model

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
	Flag      int       `json:"flag" gorm:"default:0"`

	AuthorID uint  `json:"author_id" gorm:"not null;index"`
	Author   *User `json:"-" gorm:"foreignKey:AuthorID"`
	PhotoID  uint  `json:"photo_id" gorm:"not null;index"`

	// RepliedID points at the parent comment of a reply chain; nil for a
	// top-level comment.
	RepliedID *uint    `json:"replied_id" gorm:"index"`
	Replied   *Comment `json:"-" gorm:"foreignKey:RepliedID"`
}
