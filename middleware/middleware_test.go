package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"locationsguard/constants"
	"locationsguard/errors"
	"locationsguard/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(tokens *services.TokenService, roles ...int) *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(tokens, roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint("userID"), "role": c.GetInt("userRole")})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	agent, err := tokens.GenerateToken(services.UserInfo{UserId: 4, Role: constants.RoleAgent})
	require.NoError(t, err)
	admin, err := tokens.GenerateToken(services.UserInfo{UserId: 1, Role: constants.RoleAdmin})
	require.NoError(t, err)

	staff := protectedRouter(tokens, constants.RoleAgent, constants.RoleAdmin)
	w := get(staff, "/private", agent)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":4,"role":0}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(staff, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(staff, "/private", "garbage").Code)

	adminOnly := protectedRouter(tokens, constants.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, get(adminOnly, "/private", agent).Code)
	assert.Equal(t, http.StatusOK, get(adminOnly, "/private", admin).Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", agent)
	w = httptest.NewRecorder()
	staff.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/as/:role", func(c *gin.Context) {
		if c.Param("role") == "admin" {
			c.Set("userRole", constants.RoleAdmin)
		}
		c.Next()
	}, RoleMiddleware(constants.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, get(r, "/as/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/as/nobody", "").Code)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(errors.NewAppError(errors.ErrCodeReservationConflict, "Vehicle already reserved on 2024-06-02", nil))
	})
	r.GET("/written", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
		c.Writer.WriteHeaderNow()
		_ = c.Error(errors.NewAppError(errors.ErrCodeDBError, "late", nil))
	})

	w := get(r, "/conflict", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":0,"mess":"Vehicle already reserved on 2024-06-02"}`, w.Body.String())

	assert.Equal(t, http.StatusAccepted, get(r, "/written", "").Code)
}

func TestSessionMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(SessionMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("sessionId"))
	})

	w := get(r, "/", "")
	id := w.Header().Get(SessionHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, existing)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, existing, w.Header().Get(SessionHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(SessionHeader))
}

func TestWebsocketAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("secret", time.Hour)
	agent, err := tokens.GenerateToken(services.UserInfo{UserId: 4, Role: constants.RoleAgent})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ws", WebsocketAuthMiddleware(tokens, constants.RoleAgent, constants.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint("userID")})
	})

	w := get(r, "/ws?token="+agent, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":4}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(r, "/ws", agent).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws?token=forged", "").Code)

	// the query parameter is not accepted on ordinary routes
	assert.Equal(t, http.StatusUnauthorized, get(protectedRouter(tokens), "/private?token="+agent, "").Code)
}
