package model

import "time"

// Follow is a follower->followed edge. Self-loops are valid: every user
// follows itself so the home-feed join also returns the user's own photos.
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	Timestamp  time.Time `json:"timestamp" gorm:"autoCreateTime;index"`

	Follower *User `json:"-" gorm:"foreignKey:FollowerID"`
	Followed *User `json:"-" gorm:"foreignKey:FollowedID"`
}

// Collect is a user->photo favorite edge.
type Collect struct {
	CollectorID uint      `json:"collector_id" gorm:"primaryKey;autoIncrement:false"`
	CollectedID uint      `json:"collected_id" gorm:"primaryKey;autoIncrement:false"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime;index"`

	Collector *User  `json:"-" gorm:"foreignKey:CollectorID"`
	Collected *Photo `json:"-" gorm:"foreignKey:CollectedID"`
}
