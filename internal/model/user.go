package model

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:20;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Name         string    `json:"name" gorm:"size:30"`
	Website      string    `json:"website" gorm:"size:255"`
	Bio          string    `json:"bio" gorm:"size:120"`
	Location     string    `json:"location" gorm:"size:50"`
	MemberSince  time.Time `json:"member_since" gorm:"autoCreateTime"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	Active       bool      `json:"active" gorm:"default:true"`
	Locked       bool      `json:"locked" gorm:"default:false"`

	AvatarS   string `json:"avatar_s" gorm:"size:64"`
	AvatarM   string `json:"avatar_m" gorm:"size:64"`
	AvatarL   string `json:"avatar_l" gorm:"size:64"`
	AvatarRaw string `json:"-" gorm:"size:64"`

	ReceiveCommentNotification bool `json:"receive_comment_notification" gorm:"default:true"`
	ReceiveFollowNotification  bool `json:"receive_follow_notification" gorm:"default:true"`
	ReceiveCollectNotification bool `json:"receive_collect_notification" gorm:"default:true"`

	PublicCollections bool `json:"public_collections" gorm:"default:true"`
	PublicFollowers   bool `json:"public_followers" gorm:"default:true"`
	PublicFollowing   bool `json:"public_following" gorm:"default:true"`

	RoleID uint    `json:"-" gorm:"index"`
	Role   *Role   `json:"-" gorm:"foreignKey:RoleID"`
	Photos []Photo `json:"-" gorm:"foreignKey:AuthorID"`
}
