package model

type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;size:30;not null"`
	Permissions []Permission `json:"permissions" gorm:"many2many:roles_permissions;"`
}

type Permission struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex;size:30;not null"`
	Roles []Role `json:"-" gorm:"many2many:roles_permissions;"`
}
