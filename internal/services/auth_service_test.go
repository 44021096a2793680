package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	updated *models.User
	newHash string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (f *fakeUserStore) add(u *models.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.add(u)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (f *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, u *models.User) error {
	f.updated = u
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	f.newHash = hash
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeResetStore struct {
	created  *models.PasswordResetToken
	consumed string
	newHash  string
	userID   uuid.UUID
	err      error
}

func (f *fakeResetStore) Create(ctx context.Context, t *models.PasswordResetToken) error {
	f.created = t
	return nil
}

func (f *fakeResetStore) Consume(ctx context.Context, token string, passwordHash string) (uuid.UUID, error) {
	f.consumed = token
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.newHash = passwordHash
	return f.userID, nil
}

type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.to, f.subject, f.body = to, subject, body
	return f.err
}

func newTestAuthService(users *fakeUserStore, resets *fakeResetStore, mail *fakeMailer) *AuthService {
	tokens := NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	return NewAuthService(users, resets, mail, tokens, config.ResetConfig{
		TokenLength: 12,
		TokenTTL:    time.Hour,
	})
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeResetStore{}, &fakeMailer{})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "admin@hospital.test",
		Password: "secret",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "You cannot register as an admin.", appErr.Fields["role"])
}

func TestCreateUserAllowsAdminRole(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	user, err := svc.CreateUser(context.Background(), &models.RegisterRequest{
		Email:    "admin@hospital.test",
		Password: "secret",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	users.add(&models.User{Email: "nurse@hospital.test"})
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "nurse@hospital.test",
		Password: "secret",
		Role:     models.RoleNurse,
	})
	require.Error(t, err)
	assert.Equal(t, "Email already registered.", apperr.From(err).Fields["email"])
}

func TestRegisterHashesPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "nurse@hospital.test",
		Password: "secret",
		Role:     models.RoleNurse,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, secrets.CheckPassword("secret", user.PasswordHash))
}

func TestLoginIssuesTokenPair(t *testing.T) {
	hash, err := secrets.HashPassword("secret")
	require.NoError(t, err)

	users := newFakeUserStore()
	users.add(&models.User{Email: "nurse@hospital.test", PasswordHash: hash, Role: models.RoleNurse})
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	pair, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nurse@hospital.test",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := secrets.HashPassword("secret")
	require.NoError(t, err)

	users := newFakeUserStore()
	users.add(&models.User{Email: "nurse@hospital.test", PasswordHash: hash})
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nurse@hospital.test",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.From(err).Kind)
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	hash, err := secrets.HashPassword("secret")
	require.NoError(t, err)

	users := newFakeUserStore()
	user := &models.User{Email: "nurse@hospital.test", PasswordHash: hash, Role: models.RoleNurse}
	users.add(user)
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	pair, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nurse@hospital.test",
		Password: "secret",
	})
	require.NoError(t, err)

	// An access token must not be accepted where a refresh token is
	// expected
	_, err = svc.Refresh(context.Background(), pair.Access)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.From(err).Kind)

	token, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Access)
}

func TestChangePasswordChecksOldPassword(t *testing.T) {
	hash, err := secrets.HashPassword("old-password")
	require.NoError(t, err)

	users := newFakeUserStore()
	user := &models.User{Email: "nurse@hospital.test", PasswordHash: hash}
	users.add(user)
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	err = svc.ChangePassword(context.Background(), user.ID, &models.ChangePasswordRequest{
		OldPassword: "not-the-old-one",
		NewPassword: "new-password",
	})
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "Wrong password.", appErr.Fields["old_password"])
	assert.Empty(t, users.newHash)

	err = svc.ChangePassword(context.Background(), user.ID, &models.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password",
	})
	require.NoError(t, err)
	assert.True(t, secrets.CheckPassword("new-password", users.newHash))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserStore(), &fakeResetStore{}, &fakeMailer{})

	err := svc.ForgotPassword(context.Background(), "ghost@hospital.test")
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, "User not found.", appErr.Fields["email"])
}

func TestForgotPasswordIssuesAndMailsToken(t *testing.T) {
	users := newFakeUserStore()
	user := &models.User{Email: "nurse@hospital.test"}
	users.add(user)
	resets := &fakeResetStore{}
	mail := &fakeMailer{}
	svc := newTestAuthService(users, resets, mail)

	err := svc.ForgotPassword(context.Background(), "nurse@hospital.test")
	require.NoError(t, err)

	require.NotNil(t, resets.created)
	assert.Equal(t, user.ID, resets.created.UserID)
	assert.Len(t, resets.created.Token, 12)
	assert.True(t, resets.created.ExpiresAt.After(time.Now()))

	assert.Equal(t, "nurse@hospital.test", mail.to)
	assert.Contains(t, mail.body, resets.created.Token)
}

func TestForgotPasswordSurvivesMailFailure(t *testing.T) {
	users := newFakeUserStore()
	users.add(&models.User{Email: "nurse@hospital.test"})
	resets := &fakeResetStore{}
	mail := &fakeMailer{err: assert.AnError}
	svc := newTestAuthService(users, resets, mail)

	// The token is already persisted; a delivery failure is logged, not
	// surfaced
	err := svc.ForgotPassword(context.Background(), "nurse@hospital.test")
	require.NoError(t, err)
	assert.NotNil(t, resets.created)
}

func TestResetPasswordRedeemsToken(t *testing.T) {
	users := newFakeUserStore()
	user := &models.User{Email: "nurse@hospital.test"}
	users.add(user)
	resets := &fakeResetStore{userID: user.ID}
	svc := newTestAuthService(users, resets, &fakeMailer{})

	err := svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Token:       "abc123",
		NewPassword: "brand-new",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resets.consumed)
	assert.True(t, secrets.CheckPassword("brand-new", resets.newHash))
}

func TestResetPasswordInvalidToken(t *testing.T) {
	resets := &fakeResetStore{err: apperr.Validation("token", "Invalid token.")}
	svc := newTestAuthService(newFakeUserStore(), resets, &fakeMailer{})

	err := svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Token:       "expired",
		NewPassword: "brand-new",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid token.", apperr.From(err).Fields["token"])
}

func TestUpdateUserRoleRequiresAdmin(t *testing.T) {
	users := newFakeUserStore()
	user := &models.User{Email: "nurse@hospital.test", Role: models.RoleNurse}
	users.add(user)
	svc := newTestAuthService(users, &fakeResetStore{}, &fakeMailer{})

	supervisor := models.UserContext{UserID: uuid.New(), Role: models.RoleSupervisor}
	newRole := models.RoleSupervisor
	_, err := svc.UpdateUser(context.Background(), supervisor, user.ID, &models.UserUpdateRequest{Role: &newRole})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.From(err).Kind)

	admin := models.UserContext{UserID: uuid.New(), Role: models.RoleAdmin}
	updated, err := svc.UpdateUser(context.Background(), admin, user.ID, &models.UserUpdateRequest{Role: &newRole})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSupervisor, updated.Role)
}
