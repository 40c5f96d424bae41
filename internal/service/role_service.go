package service

import (
	"errors"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"

	"gorm.io/gorm"
)

// SeedRoles creates the fixed role and permission catalog. It is
// idempotent: rerunning it neither duplicates rows nor detaches existing
// role/permission associations beyond resetting them to the catalog.
func SeedRoles(gdb *gorm.DB) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, roleName := range consts.RoleNames {
			var role model.Role
			err := tx.Where("name = ?", roleName).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = model.Role{Name: roleName}
				if err := tx.Create(&role).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			permissions := make([]model.Permission, 0, len(consts.RolePermissions[roleName]))
			for _, permissionName := range consts.RolePermissions[roleName] {
				var permission model.Permission
				err := tx.Where("name = ?", permissionName).First(&permission).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					permission = model.Permission{Name: permissionName}
					if err := tx.Create(&permission).Error; err != nil {
						return err
					}
				} else if err != nil {
					return err
				}
				permissions = append(permissions, permission)
			}

			if err := tx.Model(&role).Association("Permissions").Replace(permissions); err != nil {
				return err
			}
		}
		return nil
	})
}

// Can reports whether the user's role grants the named permission. A nil
// (anonymous) user can do nothing, and an unknown permission name is
// always false.
func Can(user *model.User, permissionName string) bool {
	if user == nil || user.RoleID == 0 {
		return false
	}

	var permission model.Permission
	if err := db.DB.Where("name = ?", permissionName).First(&permission).Error; err != nil {
		return false
	}

	var count int64
	if err := db.DB.Table("roles_permissions").
		Where("role_id = ? AND permission_id = ?", user.RoleID, permission.ID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

// IsAdmin reports whether the user holds the Administrator role.
func IsAdmin(user *model.User) bool {
	if user == nil || user.RoleID == 0 {
		return false
	}
	var role model.Role
	if err := db.DB.First(&role, user.RoleID).Error; err != nil {
		return false
	}
	return role.Name == consts.RoleAdministrator
}

// AssignDefaultRole gives a freshly created user its role: Administrator
// when the email matches the configured admin address, User otherwise.
// No-op when a role is already set.
func AssignDefaultRole(tx *gorm.DB, user *model.User) error {
	if user.RoleID != 0 {
		return nil
	}

	roleName := consts.RoleUser
	adminEmail := config.Get().App.AdminEmail
	if adminEmail != "" && user.Email == adminEmail {
		roleName = consts.RoleAdministrator
	}

	var role model.Role
	if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
		return err
	}
	user.RoleID = role.ID
	return nil
}

// requireConfirmedPermission is the shared operation-level gate: the
// caller must be logged in, confirmed, and hold the permission.
func requireConfirmedPermission(actor *model.User, permissionName string) error {
	if actor == nil {
		return NewUnauthorizedError("login required")
	}
	if !actor.Confirmed {
		return NewForbiddenError("account confirmation required")
	}
	if !Can(actor, permissionName) {
		return NewForbiddenError("permission denied")
	}
	return nil
}

func findRoleByName(tx *gorm.DB, name string) (*model.Role, error) {
	var role model.Role
	if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
