package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/middleware"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
	"github.com/otcheredev/nurse-call-service/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (m *memUserStore) add(u *models.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
}

func (m *memUserStore) Create(ctx context.Context, u *models.User) error {
	m.add(u)
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

func (m *memUserStore) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserStore) Update(ctx context.Context, u *models.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	if u, ok := m.byID[id]; ok {
		u.PasswordHash = hash
		return nil
	}
	return apperr.NotFound("user")
}

func (m *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

type memResetStore struct {
	tokens map[string]uuid.UUID
	users  *memUserStore
}

func (m *memResetStore) Create(ctx context.Context, t *models.PasswordResetToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]uuid.UUID)
	}
	m.tokens[t.Token] = t.UserID
	return nil
}

func (m *memResetStore) Consume(ctx context.Context, token string, passwordHash string) (uuid.UUID, error) {
	if id, ok := m.tokens[token]; ok {
		delete(m.tokens, token)
		if u, found := m.users.byID[id]; found {
			u.PasswordHash = passwordHash
		}
		return id, nil
	}
	return uuid.Nil, apperr.Validation("token", "Invalid token.")
}

type nopMailer struct{}

func (nopMailer) Send(to, subject, body string) error { return nil }

type authRig struct {
	router *chi.Mux
	users  *memUserStore
	resets *memResetStore
	tokens *services.TokenService
}

func newAuthRig(t *testing.T) *authRig {
	t.Helper()

	users := newMemUserStore()
	resets := &memResetStore{users: users}
	tokens := services.NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	auth := services.NewAuthService(users, resets, nopMailer{}, tokens, config.ResetConfig{
		TokenLength: 12,
		TokenTTL:    time.Hour,
	})
	h := NewAuthHandler(auth)
	uh := NewUserHandler(auth)

	r := chi.NewRouter()
	r.Post("/api/register", h.Register)
	r.Post("/api/login", h.Login)
	r.Post("/api/refresh", h.Refresh)
	r.Post("/api/forgot-password", h.ForgotPassword)
	r.Post("/api/reset-password", h.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/api/users/me", h.Me)
		r.Put("/api/change-password", h.ChangePassword)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Post("/api/users", uh.Create)
		})
	})

	return &authRig{router: r, users: users, resets: resets, tokens: tokens}
}

func (rig *authRig) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	rig.router.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	rig := newAuthRig(t)

	rec := rig.do(http.MethodPost, "/api/register", "",
		`{"email":"nurse@hospital.test","password":"secret","role":"nurse"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "nurse@hospital.test", user.Email)
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestRegisterAdminRejectedOnTheWire(t *testing.T) {
	rig := newAuthRig(t)

	rec := rig.do(http.MethodPost, "/api/register", "",
		`{"email":"admin@hospital.test","password":"secret","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot register as an admin.", decodeMap(t, rec)["role"])
}

func TestLoginAndMe(t *testing.T) {
	rig := newAuthRig(t)

	rec := rig.do(http.MethodPost, "/api/register", "",
		`{"email":"nurse@hospital.test","password":"secret","role":"nurse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = rig.do(http.MethodPost, "/api/login", "",
		`{"email":"nurse@hospital.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	rec = rig.do(http.MethodGet, "/api/users/me", pair.Access, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nurse@hospital.test")
}

func TestMeRequiresAuthentication(t *testing.T) {
	rig := newAuthRig(t)

	rec := rig.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordWireContract(t *testing.T) {
	rig := newAuthRig(t)

	hash, err := secrets.HashPassword("old-password")
	require.NoError(t, err)
	user := &models.User{Email: "nurse@hospital.test", PasswordHash: hash, Role: models.RoleNurse}
	rig.users.add(user)

	pair, err := rig.tokens.GeneratePair(user)
	require.NoError(t, err)

	rec := rig.do(http.MethodPut, "/api/change-password", pair.Access,
		`{"old_password":"wrong","new_password":"fresh"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Wrong password.", decodeMap(t, rec)["old_password"])

	rec = rig.do(http.MethodPut, "/api/change-password", pair.Access,
		`{"old_password":"old-password","new_password":"fresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated successfully.", decodeMap(t, rec)["detail"])
}

func TestForgotPasswordWireContract(t *testing.T) {
	rig := newAuthRig(t)
	rig.users.add(&models.User{Email: "nurse@hospital.test"})

	rec := rig.do(http.MethodPost, "/api/forgot-password", "",
		`{"email":"ghost@hospital.test"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found.", decodeMap(t, rec)["email"])

	rec = rig.do(http.MethodPost, "/api/forgot-password", "",
		`{"email":"nurse@hospital.test"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reset token sent.", decodeMap(t, rec)["detail"])
	assert.Len(t, rig.resets.tokens, 1)
}

func TestResetPasswordWireContract(t *testing.T) {
	rig := newAuthRig(t)
	user := &models.User{Email: "nurse@hospital.test"}
	rig.users.add(user)

	rec := rig.do(http.MethodPost, "/api/forgot-password", "",
		`{"email":"nurse@hospital.test"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var token string
	for tok := range rig.resets.tokens {
		token = tok
	}

	rec = rig.do(http.MethodPost, "/api/reset-password", "",
		`{"token":"`+token+`","new_password":"fresh"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successful.", decodeMap(t, rec)["detail"])
	assert.True(t, secrets.CheckPassword("fresh", user.PasswordHash))

	// A token is single use
	rec = rig.do(http.MethodPost, "/api/reset-password", "",
		`{"token":"`+token+`","new_password":"again"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid token.", decodeMap(t, rec)["token"])
}

func TestAdminCreatesUserEndpoint(t *testing.T) {
	rig := newAuthRig(t)

	hash, err := secrets.HashPassword("secret")
	require.NoError(t, err)
	admin := &models.User{Email: "admin@hospital.test", PasswordHash: hash, Role: models.RoleAdmin}
	rig.users.add(admin)
	nurse := &models.User{Email: "nurse@hospital.test", PasswordHash: hash, Role: models.RoleNurse}
	rig.users.add(nurse)

	nursePair, err := rig.tokens.GeneratePair(nurse)
	require.NoError(t, err)
	rec := rig.do(http.MethodPost, "/api/users", nursePair.Access,
		`{"email":"second@hospital.test","password":"secret","role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminPair, err := rig.tokens.GeneratePair(admin)
	require.NoError(t, err)
	rec = rig.do(http.MethodPost, "/api/users", adminPair.Access,
		`{"email":"second@hospital.test","password":"secret","role":"admin"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, models.RoleAdmin, created.Role)
}

func TestRefreshEndpoint(t *testing.T) {
	rig := newAuthRig(t)

	rec := rig.do(http.MethodPost, "/api/register", "",
		`{"email":"nurse@hospital.test","password":"secret","role":"nurse"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = rig.do(http.MethodPost, "/api/login", "",
		`{"email":"nurse@hospital.test","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	rec = rig.do(http.MethodPost, "/api/refresh", "",
		`{"refresh":"`+pair.Refresh+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var token models.AccessToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.NotEmpty(t, token.Access)
}
