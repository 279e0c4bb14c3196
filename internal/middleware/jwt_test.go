package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"file-insight/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("s3cret")

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(ttl time.Duration) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(secret, ttl), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "email": UserEmail(c)})
	})
	return r
}

func get(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	token, err := IssueToken(secret, &model.User{ID: 42, Email: "a@b.c"}, 7*24*time.Hour)
	require.NoError(t, err)

	w := get(protected(time.Hour), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":42,"email":"a@b.c"}`, w.Body.String())
	assert.Empty(t, w.Header().Get(RenewHeader))
}

func TestJWTAuthRejects(t *testing.T) {
	expired, _ := IssueToken(secret, &model.User{ID: 1}, -time.Minute)
	foreign, _ := IssueToken([]byte("other"), &model.User{ID: 1}, time.Hour)
	noUID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)

	r := protected(time.Hour)
	for name, auth := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"garbage":      "Bearer abc.def.ghi",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
		"no uid":       "Bearer " + noUID,
	} {
		assert.Equal(t, http.StatusUnauthorized, get(r, auth).Code, name)
	}
}

func TestJWTAuthRejectsOtherAlgorithms(t *testing.T) {
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": 1, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(protected(time.Hour), "Bearer "+none).Code)
}

func TestJWTAuthRenewsNearExpiry(t *testing.T) {
	token, err := IssueToken(secret, &model.User{ID: 7, Email: "x@y.z"}, time.Hour)
	require.NoError(t, err)

	w := get(protected(48*time.Hour), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := w.Header().Get(RenewHeader)
	require.NotEmpty(t, fresh)

	w = get(protected(48*time.Hour), "Bearer "+fresh)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(RenewHeader))
}
