package model

import "time"

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"not null"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`

	ReceiverID uint  `json:"receiver_id" gorm:"not null;index"`
	Receiver   *User `json:"-" gorm:"foreignKey:ReceiverID"`
}
