package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"verdura/globals"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuth("test-secret")

	token, err := a.GenerateToken("adm123", "admin@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "adm123", claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Username)
}

func TestExpiredTokenRejected(t *testing.T) {
	a := NewAuth("test-secret")

	token, err := a.GenerateToken("adm123", "admin@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = a.ValidateJWT(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	a := NewAuth("test-secret")
	token, err := a.GenerateToken("adm123", "admin@example.com", time.Hour)
	require.NoError(t, err)

	other := NewAuth("different-secret")
	_, err = other.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateBearer(t *testing.T) {
	a := NewAuth("test-secret")
	token, err := a.GenerateToken("adm123", "admin@example.com", time.Hour)
	require.NoError(t, err)

	_, err = a.ValidateBearer("Bearer " + token)
	assert.NoError(t, err)

	_, err = a.ValidateBearer(token)
	assert.Error(t, err, "missing Bearer prefix must fail")

	_, err = a.ValidateBearer("")
	assert.Error(t, err)
}

func TestAuthenticateMiddleware(t *testing.T) {
	a := NewAuth("test-secret")

	var gotAdminID string
	protected := a.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotAdminID, _ = r.Context().Value(globals.AdminIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	// no token
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	protected(rec, req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token
	token, err := a.GenerateToken("adm123", "admin@example.com", time.Hour)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected(rec, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "adm123", gotAdminID)
}
