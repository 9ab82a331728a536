package models

import "time"

// User is an account record as exchanged with the account server.
// Zero-valued fields are omitted on the wire, so a partially filled User
// doubles as an "add user" payload. The server never returns Password.
type User struct {
	UserID     int64      `json:"userId,omitempty" url:"userId,omitempty" form:"userId"`
	Username   string     `json:"username,omitempty" url:"username,omitempty" form:"username"`
	Name       string     `json:"name,omitempty" url:"name,omitempty" form:"name"`
	Email      string     `json:"email,omitempty" url:"email,omitempty" form:"email"`
	Tel        string     `json:"tel,omitempty" url:"tel,omitempty" form:"tel"`
	Password   string     `json:"password,omitempty" url:"password,omitempty" form:"password"`
	Avatar     string     `json:"avatar,omitempty" url:"avatar,omitempty" form:"avatar"`
	State      string     `json:"state,omitempty" url:"state,omitempty" form:"state"`
	IsAdmin    string     `json:"isAdmin,omitempty" url:"isAdmin,omitempty" form:"isAdmin"`
	RoleID     int        `json:"roleId,omitempty" url:"roleId,omitempty" form:"roleId"`
	LoginTime  *time.Time `json:"loginTime,omitempty" url:"-" form:"-"`
	CreateTime *time.Time `json:"createTime,omitempty" url:"-" form:"-"`
}

// Account states and admin flags use the server's string encoding.
const (
	StateEnabled  = "1"
	StateDisabled = "0"

	AdminYes = "1"
	AdminNo  = "0"
)

// Admin reports whether the user carries the admin flag.
func (u User) Admin() bool {
	return u.IsAdmin == AdminYes
}

// UserQueryParams filters a user listing. Start is the 1-based page number
// and Limit the page size; both are optional.
type UserQueryParams struct {
	Username string `json:"username,omitempty" url:"username,omitempty" form:"username"`
	Name     string `json:"name,omitempty" url:"name,omitempty" form:"name"`
	Email    string `json:"email,omitempty" url:"email,omitempty" form:"email"`
	Tel      string `json:"tel,omitempty" url:"tel,omitempty" form:"tel"`
	State    string `json:"state,omitempty" url:"state,omitempty" form:"state"`
	IsAdmin  string `json:"isAdmin,omitempty" url:"isAdmin,omitempty" form:"isAdmin"`
	RoleID   int    `json:"roleId,omitempty" url:"roleId,omitempty" form:"roleId"`
	Start    int    `json:"start,omitempty" url:"start,omitempty" form:"start"`
	Limit    int    `json:"limit,omitempty" url:"limit,omitempty" form:"limit"`
}

// UpdateUserParams is a partial mutation. Username selects the account;
// empty fields are left unchanged.
type UpdateUserParams struct {
	Username string `json:"username,omitempty" url:"username,omitempty" form:"username"`
	Name     string `json:"name,omitempty" url:"name,omitempty" form:"name"`
	Email    string `json:"email,omitempty" url:"email,omitempty" form:"email"`
	Tel      string `json:"tel,omitempty" url:"tel,omitempty" form:"tel"`
	Password string `json:"password,omitempty" url:"password,omitempty" form:"password"`
	Avatar   string `json:"avatar,omitempty" url:"avatar,omitempty" form:"avatar"`
}

// Role is the authorization role attached to a logged-in user.
type Role struct {
	RoleID   int    `json:"roleId"`
	RoleName string `json:"roleName"`
	RoleDesc string `json:"roleDesc,omitempty"`
}

// Permission is a node of the permission tree returned on login.
type Permission struct {
	PermissionID  int          `json:"permissionId"`
	ParentID      int          `json:"parentId,omitempty"`
	Name          string       `json:"name"`
	PermissionKey string       `json:"permissionKey"`
	Path          string       `json:"path,omitempty"`
	Children      []Permission `json:"children,omitempty"`
}

// LoginResponse is the session payload returned by the login endpoints.
type LoginResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	UserID       int64        `json:"userId"`
	User         *User        `json:"user,omitempty"`
	Role         *Role        `json:"role,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
}
