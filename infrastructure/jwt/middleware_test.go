package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/cityvoice/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api", jwt.Middleware(testSecret))
	g.GET("/me", func(c *gin.Context) {
		claims, _ := jwt.GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"sub": claims.Sub, "zone": claims.Zone})
	})
	g.GET("/authority", jwt.RequireRole(jwt.RoleAuthority), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	w := do(newRouter(), "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsForeignSecret(t *testing.T) {
	token, _, err := jwt.NewIssuer("other-secret", time.Hour).Issue("7", jwt.RoleCitizen, "")
	require.NoError(t, err)

	w := do(newRouter(), "/api/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_AcceptsIssuedToken(t *testing.T) {
	token, expiresAt, err := jwt.NewIssuer(testSecret, time.Hour).Issue("North", jwt.RoleAuthority, "North")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	w := do(newRouter(), "/api/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"zone":"North"`)
}

func TestRequireRole(t *testing.T) {
	issuer := jwt.NewIssuer(testSecret, time.Hour)
	citizen, _, err := issuer.Issue("7", jwt.RoleCitizen, "")
	require.NoError(t, err)
	authority, _, err := issuer.Issue("South", jwt.RoleAuthority, "South")
	require.NoError(t, err)

	r := newRouter()
	assert.Equal(t, http.StatusForbidden, do(r, "/api/authority", citizen).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/api/authority", authority).Code)
}

func TestIssuer_ExpiredTokenRejected(t *testing.T) {
	issuer := jwt.NewIssuer(testSecret, -time.Minute)
	token, _, err := issuer.Issue("7", jwt.RoleCitizen, "")
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.Error(t, err)
}

func TestIssuer_RequiresSecret(t *testing.T) {
	_, _, err := jwt.NewIssuer("", time.Hour).Issue("7", jwt.RoleCitizen, "")
	assert.Error(t, err)
}

func TestOptionalMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/who", jwt.OptionalMiddleware(testSecret), func(c *gin.Context) {
		if claims, ok := jwt.GetClaims(c); ok {
			c.String(http.StatusOK, claims.Sub)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	token, _, err := jwt.NewIssuer(testSecret, time.Hour).Issue("7", jwt.RoleCitizen, "")
	require.NoError(t, err)

	assert.Equal(t, "7", do(r, "/who", token).Body.String())
	assert.Equal(t, "anonymous", do(r, "/who", "").Body.String())
	assert.Equal(t, "anonymous", do(r, "/who", "garbage").Body.String())
}
