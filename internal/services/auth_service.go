package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/pkg/secrets"
	"github.com/rs/zerolog/log"
)

// UserStore is the persistence surface the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResetTokenStore persists and redeems password-reset tokens. Consume
// marks the token used and writes the new password hash in one
// transaction, so a token is never burned without the password change.
type ResetTokenStore interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	Consume(ctx context.Context, token string, passwordHash string) (uuid.UUID, error)
}

// Mailer delivers out-of-band messages
type Mailer interface {
	Send(to, subject, body string) error
}

// AuthService handles identity and credential management
type AuthService struct {
	users  UserStore
	resets ResetTokenStore
	mail   Mailer
	tokens *TokenService
	reset  config.ResetConfig
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, resets ResetTokenStore, mail Mailer, tokens *TokenService, reset config.ResetConfig) *AuthService {
	return &AuthService{
		users:  users,
		resets: resets,
		mail:   mail,
		tokens: tokens,
		reset:  reset,
	}
}

// Register creates a new account. Admin accounts cannot be
// self-registered.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Role == models.RoleAdmin {
		return nil, apperr.Validation("role", "You cannot register as an admin.")
	}
	return s.CreateUser(ctx, req)
}

// CreateUser provisions an account directly. Unlike Register it
// accepts any valid role, so the caller must be an administrator.
func (s *AuthService) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, apperr.Validation("email", "A valid email is required.")
	}
	if req.Password == "" {
		return nil, apperr.Validation("password", "Password is required.")
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("role", "Unknown role.")
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Validation("email", "Email already registered.")
	} else if apperr.From(err).Kind != apperr.KindNotFound {
		return nil, err
	}

	hash, err := secrets.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Authentication("invalid credentials")
	}
	if !secrets.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperr.Authentication("invalid credentials")
	}
	return s.tokens.GeneratePair(user)
}

// Refresh exchanges a valid refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*models.AccessToken, error) {
	claims, err := s.tokens.Parse(refresh, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Authentication("unknown user")
	}
	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return nil, err
	}
	return &models.AccessToken{Access: access}, nil
}

// ChangePassword replaces a user's password after checking the old one
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return apperr.Validation("new_password", "Password is required.")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !secrets.CheckPassword(req.OldPassword, user.PasswordHash) {
		return apperr.Validation("old_password", "Wrong password.")
	}
	hash, err := secrets.HashPassword(req.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword issues a reset token and mails it to the user.
// Unknown emails are reported to the caller; this mirrors the existing
// API contract and is a deliberate disclosure trade-off.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.From(err).Kind == apperr.KindNotFound {
			return apperr.NotFoundField("email", "User not found.")
		}
		return err
	}

	token, err := secrets.RandomToken(s.reset.TokenLength)
	if err != nil {
		return apperr.Internal(err)
	}

	record := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.reset.TokenTTL),
	}
	if err := s.resets.Create(ctx, record); err != nil {
		return err
	}

	// Delivery is out-of-band; a send failure must not invalidate the
	// issued token
	body := fmt.Sprintf("Use this token to reset your password: %s", token)
	if err := s.mail.Send(user.Email, "Password Reset Token", body); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send reset token email")
	}
	return nil
}

// ResetPassword redeems a single-use token and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if req.NewPassword == "" {
		return apperr.Validation("new_password", "Password is required.")
	}
	hash, err := secrets.HashPassword(req.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	_, err = s.resets.Consume(ctx, req.Token, hash)
	return err
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers retrieves all users
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// UpdateUser applies an update. Role changes require an admin actor.
func (s *AuthService) UpdateUser(ctx context.Context, actor models.UserContext, id uuid.UUID, req *models.UserUpdateRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		if !strings.Contains(*req.Email, "@") {
			return nil, apperr.Validation("email", "A valid email is required.")
		}
		user.Email = *req.Email
	}
	if req.Role != nil && *req.Role != user.Role {
		if actor.Role != models.RoleAdmin {
			return nil, apperr.Authorization("only admins can change roles")
		}
		if !req.Role.Valid() {
			return nil, apperr.Validation("role", "Unknown role.")
		}
		user.Role = *req.Role
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user
func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
