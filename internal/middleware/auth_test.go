package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/otcheredev/nurse-call-service/internal/config"
	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens() *services.TokenService {
	return services.NewTokenService(config.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
}

func okHandler(t *testing.T, sawUser *models.UserContext) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUser(r.Context()); ok {
			*sawUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	var user models.UserContext
	handler := Auth(newTestTokens())(okHandler(t, &user))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wards", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	var user models.UserContext
	handler := Auth(newTestTokens())(okHandler(t, &user))

	req := httptest.NewRequest(http.MethodGet, "/api/wards", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAttachesUserContext(t *testing.T) {
	tokens := newTestTokens()
	pair, err := tokens.GeneratePair(&models.User{
		Email: "nurse@hospital.test",
		Role:  models.RoleNurse,
	})
	require.NoError(t, err)

	var user models.UserContext
	handler := Auth(tokens)(okHandler(t, &user))

	req := httptest.NewRequest(http.MethodGet, "/api/wards", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nurse@hospital.test", user.Email)
	assert.Equal(t, models.RoleNurse, user.Role)
}

func TestAuthRejectsRefreshTokenOnAccessRoute(t *testing.T) {
	tokens := newTestTokens()
	pair, err := tokens.GeneratePair(&models.User{
		Email: "nurse@hospital.test",
		Role:  models.RoleNurse,
	})
	require.NoError(t, err)

	var user models.UserContext
	handler := Auth(tokens)(okHandler(t, &user))

	req := httptest.NewRequest(http.MethodGet, "/api/wards", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := newTestTokens()
	pair, err := tokens.GeneratePair(&models.User{
		Email: "nurse@hospital.test",
		Role:  models.RoleNurse,
	})
	require.NoError(t, err)

	var user models.UserContext
	handler := Auth(tokens)(RequireRole(models.RoleAdmin, models.RoleSupervisor)(okHandler(t, &user)))

	req := httptest.NewRequest(http.MethodPost, "/api/wards", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminPair, err := tokens.GeneratePair(&models.User{
		Email: "admin@hospital.test",
		Role:  models.RoleAdmin,
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/wards", nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.Access)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	var user models.UserContext
	handler := RequireRole(models.RoleAdmin)(okHandler(t, &user))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
