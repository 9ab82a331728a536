package services

import (
	"user-mgmt-go/pkg/db"
	"user-mgmt-go/pkg/models"
)

var roles = map[int]models.Role{
	db.AdminRoleID:   {RoleID: db.AdminRoleID, RoleName: "admin", RoleDesc: "Administrator"},
	db.DefaultRoleID: {RoleID: db.DefaultRoleID, RoleName: "user", RoleDesc: "Regular user"},
}

var (
	profilePermissions = models.Permission{
		PermissionID: 1, Name: "Profile", PermissionKey: "user:profile", Path: "/profile",
	}
	adminPermissions = models.Permission{
		PermissionID: 10, Name: "User management", PermissionKey: "user:manage", Path: "/users",
		Children: []models.Permission{
			{PermissionID: 11, ParentID: 10, Name: "List users", PermissionKey: "user:list"},
			{PermissionID: 12, ParentID: 10, Name: "Add user", PermissionKey: "user:add"},
			{PermissionID: 13, ParentID: 10, Name: "Edit user", PermissionKey: "user:update"},
		},
	}
)

// roleFor returns the role with id, falling back to the default role.
func roleFor(id int) *models.Role {
	role, ok := roles[id]
	if !ok {
		role = roles[db.DefaultRoleID]
	}
	return &role
}

// permissionsFor returns the permission tree granted to a user.
func permissionsFor(u models.User) []models.Permission {
	perms := []models.Permission{profilePermissions}
	if u.Admin() || u.RoleID == db.AdminRoleID {
		perms = append(perms, adminPermissions)
	}
	return perms
}
