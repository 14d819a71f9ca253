package domain

import (
	"time"

	"github.com/google/uuid"
)

// API key scopes
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
	ScopeAdmin = "admin"
)

// APIKey represents an issued API key. Only the SHA-256 hash is stored;
// the plaintext token is returned exactly once at creation.
type APIKey struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string     `gorm:"column:name;type:varchar(100)" json:"name"`
	KeyHash    string     `gorm:"column:key_hash;type:char(64);uniqueIndex" json:"-"`
	KeyPrefix  string     `gorm:"column:key_prefix;type:varchar(16)" json:"key_prefix"`
	Scopes     string     `gorm:"column:scopes;type:varchar(100)" json:"scopes"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id,omitempty"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }

// CreateAPIKeyRequest request body for issuing an API key
type CreateAPIKeyRequest struct {
	Name      string     `json:"name" binding:"required"`
	Scopes    []string   `json:"scopes" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// APIKeyCreatedResponse returned once at creation with the plaintext key
type APIKeyCreatedResponse struct {
	*APIKey
	Key string `json:"key"`
}
