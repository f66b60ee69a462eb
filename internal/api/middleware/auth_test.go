package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds8/tip-allowance/internal/api/middleware"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)

	code := m.Run()
	os.Exit(code)
}

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(publicPEM)
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims middleware.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newAuthenticator(t *testing.T, cfg middleware.AuthConfig) *middleware.Authenticator {
	t.Helper()
	authn, err := middleware.NewAuthenticator(cfg)
	require.NoError(t, err)
	return authn
}

func expiresIn(d time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: "dashboard", ExpiresAt: jwt.NewNumericDate(time.Now().Add(d))}
}

func TestAuthenticate_JWT(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)
	authn := newAuthenticator(t, middleware.AuthConfig{JWTPublicKey: publicPEM})

	valid := signToken(t, key, middleware.Claims{
		RegisteredClaims: expiresIn(time.Hour),
		Scope:            "allowance profile",
		FID:              42,
	})
	expired := signToken(t, key, middleware.Claims{RegisteredClaims: expiresIn(-time.Hour)})
	foreign := signToken(t, otherKey, middleware.Claims{})
	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		principal, err := authn.Authenticate("Bearer " + valid)
		require.NoError(t, err)
		assert.Equal(t, "jwt", principal.Method)
		assert.Equal(t, "dashboard", principal.Subject)
		assert.Equal(t, domain.FID(42), principal.FID)
		// Unknown scopes are ignored
		assert.Equal(t, map[middleware.Scope]bool{middleware.ScopeAllowance: true}, principal.Scopes)
	})

	for name, token := range map[string]string{
		"expired":        expired,
		"wrong key":      foreign,
		"hmac signature": hmac,
		"garbage":        "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			principal, err := authn.Authenticate("Bearer " + token)
			assert.Error(t, err)
			assert.Nil(t, principal)
		})
	}

	t.Run("no public key configured", func(t *testing.T) {
		_, err := newAuthenticator(t, middleware.AuthConfig{APIKeys: []string{"k"}}).Authenticate("Bearer " + valid)
		assert.Error(t, err)
	})
}

func TestAuthenticate_APIKey(t *testing.T) {
	authn := newAuthenticator(t, middleware.AuthConfig{APIKeys: []string{"alpha", " beta:raindrop ", ""}})

	tests := []struct {
		name    string
		header  string
		success bool
		scopes  map[middleware.Scope]bool
	}{
		{name: "unscoped key", header: "ApiKey alpha", success: true},
		{name: "scheme is case insensitive", header: "apikey alpha", success: true},
		{name: "scoped key", header: "ApiKey beta", success: true, scopes: map[middleware.Scope]bool{middleware.ScopeRaindrop: true}},
		{name: "scope suffix is not part of the key", header: "ApiKey beta:raindrop"},
		{name: "unknown key", header: "ApiKey gamma"},
		{name: "missing header", header: ""},
		{name: "no credentials", header: "ApiKey"},
		{name: "unsupported scheme", header: "Basic YWxwaGE6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := authn.Authenticate(tt.header)
			if !tt.success {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "apikey", principal.Method)
			assert.Equal(t, tt.scopes, principal.Scopes)
		})
	}
}

func TestNewAuthenticator_Invalid(t *testing.T) {
	_, err := middleware.NewAuthenticator(middleware.AuthConfig{APIKeys: []string{"alpha:karma"}})
	assert.Error(t, err)

	_, err = middleware.NewAuthenticator(middleware.AuthConfig{JWTPublicKey: "not pem"})
	assert.Error(t, err)
}

func TestAuthenticator_Enabled(t *testing.T) {
	var nilAuthn *middleware.Authenticator
	assert.False(t, nilAuthn.Enabled())
	assert.False(t, newAuthenticator(t, middleware.AuthConfig{}).Enabled())
	assert.False(t, newAuthenticator(t, middleware.AuthConfig{APIKeys: []string{" "}}).Enabled())
	assert.True(t, newAuthenticator(t, middleware.AuthConfig{APIKeys: []string{"k"}}).Enabled())

	_, publicPEM := generateKey(t)
	assert.True(t, newAuthenticator(t, middleware.AuthConfig{JWTPublicKey: publicPEM}).Enabled())
	assert.True(t, middleware.AuthConfig{JWTPublicKey: publicPEM}.Enabled())
}

func TestPrincipal_Allows(t *testing.T) {
	tests := []struct {
		name      string
		principal middleware.Principal
		scope     middleware.Scope
		fid       domain.FID
		allowed   bool
	}{
		{name: "unrestricted", principal: middleware.Principal{}, scope: middleware.ScopeRaindrop, fid: 7, allowed: true},
		{name: "scope granted", principal: middleware.Principal{Scopes: map[middleware.Scope]bool{middleware.ScopeAllowance: true}}, scope: middleware.ScopeAllowance, fid: 7, allowed: true},
		{name: "scope missing", principal: middleware.Principal{Scopes: map[middleware.Scope]bool{middleware.ScopeAllowance: true}}, scope: middleware.ScopeRaindrop, fid: 7},
		{name: "empty scope set", principal: middleware.Principal{Scopes: map[middleware.Scope]bool{}}, scope: middleware.ScopeAllowance, fid: 7},
		{name: "own fid", principal: middleware.Principal{FID: 7}, scope: middleware.ScopeAllowance, fid: 7, allowed: true},
		{name: "other fid", principal: middleware.Principal{FID: 7}, scope: middleware.ScopeAllowance, fid: 8},
		{name: "unparsed fid left to the handler", principal: middleware.Principal{FID: 7}, scope: middleware.ScopeAllowance, fid: 0, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.principal.Allows(tt.scope, tt.fid)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func newAuthRouter(authn *middleware.Authenticator) *gin.Engine {
	router := gin.New()
	router.GET("/allowance/:fid", middleware.Auth(authn, middleware.ScopeAllowance), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func serveAuth(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_Middleware(t *testing.T) {
	router := newAuthRouter(newAuthenticator(t, middleware.AuthConfig{
		APIKeys: []string{"secret", "rain-only:raindrop"},
	}))

	w := serveAuth(router, "/allowance/42", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)

	w = serveAuth(router, "/allowance/42", "ApiKey secret")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serveAuth(router, "/allowance/42", "ApiKey rain-only")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"forbidden"`)
}

func TestAuth_TokenPinnedToFID(t *testing.T) {
	key, publicPEM := generateKey(t)
	router := newAuthRouter(newAuthenticator(t, middleware.AuthConfig{JWTPublicKey: publicPEM}))
	token := "Bearer " + signToken(t, key, middleware.Claims{RegisteredClaims: expiresIn(time.Hour), FID: 42})

	assert.Equal(t, http.StatusOK, serveAuth(router, "/allowance/42", token).Code)
	assert.Equal(t, http.StatusForbidden, serveAuth(router, "/allowance/43", token).Code)
	// Malformed ids reach the handler, which answers 400
	assert.Equal(t, http.StatusOK, serveAuth(router, "/allowance/abc", token).Code)
}

func TestAuth_DisabledPassesThrough(t *testing.T) {
	assert.Equal(t, http.StatusOK, serveAuth(newAuthRouter(nil), "/allowance/42", "").Code)
	assert.Equal(t, http.StatusOK, serveAuth(newAuthRouter(newAuthenticator(t, middleware.AuthConfig{})), "/allowance/42", "").Code)
}
