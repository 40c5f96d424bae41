package service_test

import (
	"testing"

	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/model"
	"album-server/internal/service"
)

func TestSeedRolesIsIdempotent(t *testing.T) {
	setup(t)

	// SetupDB already seeded once; run twice more.
	if err := service.SeedRoles(db.DB); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if err := service.SeedRoles(db.DB); err != nil {
		t.Fatalf("third seed: %v", err)
	}

	var roleCount, permCount int64
	if err := db.DB.Model(&model.Role{}).Count(&roleCount).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if err := db.DB.Model(&model.Permission{}).Count(&permCount).Error; err != nil {
		t.Fatalf("count permissions: %v", err)
	}
	if roleCount != int64(len(consts.RoleNames)) {
		t.Fatalf("role count = %d, want %d", roleCount, len(consts.RoleNames))
	}
	if permCount != 6 {
		t.Fatalf("permission count = %d, want 6", permCount)
	}
}

func TestRolePermissionContainment(t *testing.T) {
	setup(t)
	user := newUser(t)

	type grant struct {
		role string
		can  []string
		deny []string
	}
	grants := []grant{
		{
			role: consts.RoleLocked,
			can:  []string{consts.PermissionFollow, consts.PermissionCollect},
			deny: []string{consts.PermissionComment, consts.PermissionUpload, consts.PermissionModerate, consts.PermissionAdminister},
		},
		{
			role: consts.RoleUser,
			can:  []string{consts.PermissionFollow, consts.PermissionCollect, consts.PermissionComment, consts.PermissionUpload},
			deny: []string{consts.PermissionModerate, consts.PermissionAdminister},
		},
		{
			role: consts.RoleModerator,
			can:  []string{consts.PermissionUpload, consts.PermissionModerate},
			deny: []string{consts.PermissionAdminister},
		},
		{
			role: consts.RoleAdministrator,
			can:  []string{consts.PermissionModerate, consts.PermissionAdminister},
		},
	}

	for _, g := range grants {
		promote(t, user, g.role)
		for _, p := range g.can {
			if !service.Can(user, p) {
				t.Errorf("%s should grant %s", g.role, p)
			}
		}
		for _, p := range g.deny {
			if service.Can(user, p) {
				t.Errorf("%s should not grant %s", g.role, p)
			}
		}
	}
}

func TestCanDeniesAnonymousAndUnknown(t *testing.T) {
	setup(t)
	user := newUser(t)

	if service.Can(nil, consts.PermissionFollow) {
		t.Fatal("anonymous user granted a permission")
	}
	if service.Can(user, "NO_SUCH_PERMISSION") {
		t.Fatal("unknown permission granted")
	}
}

func TestIsAdmin(t *testing.T) {
	setup(t)
	user := newUser(t)

	if service.IsAdmin(user) {
		t.Fatal("regular user reported as admin")
	}
	promote(t, user, consts.RoleAdministrator)
	if !service.IsAdmin(user) {
		t.Fatal("administrator not reported as admin")
	}
	if service.IsAdmin(nil) {
		t.Fatal("nil user reported as admin")
	}
}
