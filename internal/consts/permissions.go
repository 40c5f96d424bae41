package consts

// Permission names. The catalog is closed: roles only ever reference these.
const (
	PermissionFollow     = "FOLLOW"
	PermissionCollect    = "COLLECT"
	PermissionComment    = "COMMENT"
	PermissionUpload     = "UPLOAD"
	PermissionModerate   = "MODERATE"
	PermissionAdminister = "ADMINISTER"
)

// Role names.
const (
	RoleLocked        = "Locked"
	RoleUser          = "User"
	RoleModerator     = "Moderator"
	RoleAdministrator = "Administrator"
)

// RolePermissions maps each role to its permission set. Each role is a
// strict superset of the one before it.
var RolePermissions = map[string][]string{
	RoleLocked:        {PermissionFollow, PermissionCollect},
	RoleUser:          {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload},
	RoleModerator:     {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload, PermissionModerate},
	RoleAdministrator: {PermissionFollow, PermissionCollect, PermissionComment, PermissionUpload, PermissionModerate, PermissionAdminister},
}

// RoleNames lists the fixed catalog in seeding order.
var RoleNames = []string{RoleLocked, RoleUser, RoleModerator, RoleAdministrator}
