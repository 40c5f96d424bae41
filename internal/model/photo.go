package model

import "time"

type Photo struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"size:500"`
	Filename    string    `json:"filename" gorm:"size:64;not null"`
	FilenameS   string    `json:"filename_s" gorm:"size:64;not null"`
	FilenameM   string    `json:"filename_m" gorm:"size:64;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
	CanComment  bool      `json:"can_comment" gorm:"default:true"`
	Flag        int       `json:"flag" gorm:"default:0"`

	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   *User     `json:"-" gorm:"foreignKey:AuthorID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PhotoID"`
	Tags     []Tag     `json:"tags" gorm:"many2many:photo_tags;"`
}

type Tag struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Name   string  `json:"name" gorm:"uniqueIndex;size:64;not null"`
	Photos []Photo `json:"-" gorm:"many2many:photo_tags;"`
}
