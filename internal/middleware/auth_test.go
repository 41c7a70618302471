package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"invently_backend/internal/auth"
	"invently_backend/internal/models"
	"invently_backend/internal/repositories"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (r *stubUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) FindByEmail(_ *gorm.DB, _ string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ *gorm.DB, _ *models.User) error        { return nil }
func (r *stubUserRepo) UpdateProfile(_ *gorm.DB, _ *models.User) error { return nil }
func (r *stubUserRepo) UpdatePassword(_ *gorm.DB, _, _ string) error   { return nil }

func setupAuthRouter(t *testing.T, repo *stubUserRepo) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)

	router := gin.New()
	router.Use(DBMiddleware(nil))
	router.GET("/protected", AuthMiddleware(tokens, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": GetUserID(c)})
	})
	return router, tokens
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, please login")
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	router, _ := setupAuthRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	user := &models.User{}
	user.ID = "user-1"
	router, tokens := setupAuthRouter(t, &stubUserRepo{users: map[string]*models.User{"user-1": user}})

	token, err := tokens.Generate("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	user := &models.User{}
	user.ID = "user-1"
	router, tokens := setupAuthRouter(t, &stubUserRepo{users: map[string]*models.User{"user-1": user}})

	token, err := tokens.Generate("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_StripsPasswordHash(t *testing.T) {
	user := &models.User{PasswordHash: "$2a$10$somebcrypthash"}
	user.ID = "user-1"
	repo := &stubUserRepo{users: map[string]*models.User{"user-1": user}}

	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)

	router := gin.New()
	router.Use(DBMiddleware(nil))
	router.GET("/protected", AuthMiddleware(tokens, repo), func(c *gin.Context) {
		current := GetCurrentUser(c)
		require.NotNil(t, current)
		c.JSON(http.StatusOK, gin.H{"hash": current.PasswordHash})
	})

	token, err := tokens.Generate("user-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hash":""`)
	assert.NotContains(t, w.Body.String(), "somebcrypthash")
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	// Token verifies but the account no longer exists.
	router, tokens := setupAuthRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	token, err := tokens.Generate("ghost-user")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID_OutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetUserID(c))
	assert.Nil(t, GetCurrentUser(c))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware("http://localhost:3000"))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	// Unknown origins get no CORS grant.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// Preflight short-circuits.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
