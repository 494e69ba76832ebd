package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/internal/token"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", BearerAuthMiddleware(), RequireRole("owner"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner_id": c.GetString(ContextOwnerID)})
	})
	return r
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_BadToken(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	r := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerAuth_ValidToken(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	conf, _ := config.Fetch()
	r := setupRouter()

	signed, err := token.Generate(conf.Auth.JwtSecret, "own_1", "Test Owner", "owner", time.Hour)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "own_1")
}

func TestRequireRole_WrongRole(t *testing.T) {
	config.MockConfig(&config.Configuration{})
	conf, _ := config.Fetch()
	r := setupRouter()

	signed, err := token.Generate(conf.Auth.JwtSecret, "own_1", "Test Driver", "driver", time.Hour)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
