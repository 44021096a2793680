package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleNurse      Role = "nurse"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleNurse:
		return true
	}
	return false
}

// User represents an account that can authenticate against the API
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PasswordResetToken is a single-use, expiring reset token issued to a user
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string     `gorm:"type:varchar(64);not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName overrides the table name
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// BeforeCreate hook
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// JWTClaims carries the identity embedded in access and refresh tokens
type JWTClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TokenType string    `json:"token_type"` // access or refresh
	jwt.RegisteredClaims
}

// UserContext is the authenticated identity attached to a request
type UserContext struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// LoginRequest is the payload for credential authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is the response to a successful login
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is the payload for access-token renewal
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// AccessToken is the response to a successful token refresh
type AccessToken struct {
	Access string `json:"access"`
}

// ChangePasswordRequest is the payload for an authenticated password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ForgotPasswordRequest starts the password-reset flow
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a reset token
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UserUpdateRequest is the payload for user updates; role changes are
// restricted to admins
type UserUpdateRequest struct {
	Email *string `json:"email,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}
