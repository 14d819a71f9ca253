package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Permissions
const (
	PermContentRead  = "content:read"
	PermContentWrite = "content:write"
	PermTypesManage  = "types:manage"
	PermMediaWrite   = "media:write"
	PermKeysManage   = "keys:manage"
	PermUsersManage  = "users:manage"
)

// rolePermissions is the static role → permission table
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermContentRead, PermContentWrite, PermTypesManage,
		PermMediaWrite, PermKeysManage, PermUsersManage,
	},
	RoleEditor: {
		PermContentRead, PermContentWrite, PermMediaWrite,
	},
	RoleViewer: {
		PermContentRead,
	},
}

// RoleHasPermission reports whether a role grants a permission
func RoleHasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// User represents a dashboard user
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string    `gorm:"column:username;type:varchar(100);uniqueIndex" json:"username"`
	Email     string    `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;type:varchar(255)" json:"-"`
	Role      string    `gorm:"column:role;type:varchar(20);default:'viewer'" json:"role"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// LoginRequest request body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest request body for creating a user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}
