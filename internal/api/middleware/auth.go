package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/ds8/tip-allowance/internal/api/shared/errors"
	"github.com/ds8/tip-allowance/internal/domain"
	"github.com/ds8/tip-allowance/internal/logger"
)

// PRINCIPAL_KEY is the gin context key of the authenticated *Principal
const PRINCIPAL_KEY = "principal"

// Scope names the API routes a credential may read
type Scope string

const (
	ScopeAllowance Scope = "allowance"
	ScopeRaindrop  Scope = "raindrop"
)

func parseScope(s string) (Scope, error) {
	switch scope := Scope(strings.ToLower(strings.TrimSpace(s))); scope {
	case ScopeAllowance, ScopeRaindrop:
		return scope, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}

// AuthConfig holds the credentials accepted by the API.
// APIKeys entries are "<key>" for every scope or "<key>:<scope>[,<scope>]".
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// Enabled reports whether any credential is configured
func (c AuthConfig) Enabled() bool {
	if c.JWTPublicKey != "" {
		return true
	}
	for _, key := range c.APIKeys {
		if strings.TrimSpace(key) != "" {
			return true
		}
	}
	return false
}

// Claims are the claims of dashboard tokens. Scope is space separated;
// an empty scope grants every route. A non-zero FID pins the token to one identity.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
	FID   uint64 `json:"fid,omitempty"`
}

// Principal is an authenticated caller
type Principal struct {
	Method  string // "jwt" or "apikey"
	Subject string
	Scopes  map[Scope]bool // nil grants every scope
	FID     domain.FID     // zero for callers not pinned to an identity
}

// Allows reports whether the caller may read scope for fid
func (p *Principal) Allows(scope Scope, fid domain.FID) error {
	if p.Scopes != nil && !p.Scopes[scope] {
		return fmt.Errorf("credential is not allowed to read %s", scope)
	}
	if p.FID != 0 && fid != 0 && p.FID != fid {
		return fmt.Errorf("credential is limited to fid %d", p.FID)
	}
	return nil
}

// Authenticator validates Authorization headers against parsed credentials
type Authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   map[string]map[Scope]bool
}

// NewAuthenticator parses cfg once. It fails on a malformed public key or an unknown key scope.
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	a := &Authenticator{apiKeys: make(map[string]map[Scope]bool)}

	if cfg.JWTPublicKey != "" {
		publicKey, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = publicKey
	}

	for _, entry := range cfg.APIKeys {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, scopeList, scoped := strings.Cut(entry, ":")
		if !scoped {
			a.apiKeys[key] = nil
			continue
		}
		scopes := make(map[Scope]bool)
		for _, s := range strings.Split(scopeList, ",") {
			scope, err := parseScope(s)
			if err != nil {
				return nil, fmt.Errorf("api key %s...: %w", key[:min(4, len(key))], err)
			}
			scopes[scope] = true
		}
		a.apiKeys[key] = scopes
	}

	return a, nil
}

// Enabled reports whether requests must carry credentials
func (a *Authenticator) Enabled() bool {
	return a != nil && (a.publicKey != nil || len(a.apiKeys) > 0)
}

// Authenticate resolves the caller of an Authorization header
func (a *Authenticator) Authenticate(authHeader string) (*Principal, error) {
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	method, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || credentials == "" {
		return nil, errors.New("invalid Authorization header format")
	}

	switch strings.ToLower(method) {
	case "bearer":
		return a.authenticateJWT(credentials)
	case "apikey":
		scopes, ok := a.apiKeys[credentials]
		if !ok {
			return nil, errors.New("invalid API key")
		}
		return &Principal{Method: "apikey", Scopes: scopes}, nil
	default:
		return nil, fmt.Errorf("unsupported authorization type: %s", method)
	}
}

func (a *Authenticator) authenticateJWT(tokenString string) (*Principal, error) {
	if a.publicKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	// Expiry and not-before are checked by the parser
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return a.publicKey, nil },
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	principal := &Principal{Method: "jwt", Subject: claims.Subject, FID: domain.FID(claims.FID)}
	if fields := strings.Fields(claims.Scope); len(fields) > 0 {
		principal.Scopes = make(map[Scope]bool)
		for _, field := range fields {
			// Scopes of other services may share the token
			if scope, err := parseScope(field); err == nil {
				principal.Scopes[scope] = true
			}
		}
	}
	return principal, nil
}

// Auth guards a route of the given scope. The :fid path parameter, when valid,
// is checked against identity-pinned credentials; invalid ones are left to the handler.
// A nil or disabled authenticator lets every request through.
func Auth(authn *Authenticator, scope Scope) gin.HandlerFunc {
	if !authn.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		principal, err := authn.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError("Authentication failed", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.Envelope(apiErr))
			return
		}

		fid, _ := domain.ParseFID(c.Param("fid"))
		if err := principal.Allows(scope, fid); err != nil {
			logger.WarnCtx(c.Request.Context(), "Request not permitted",
				zap.Error(err),
				zap.String("method", principal.Method),
				zap.String("subject", principal.Subject),
				zap.String("path", c.Request.URL.Path),
			)
			apiErr := apierrors.NewForbiddenError("Request not permitted", err.Error())
			c.AbortWithStatusJSON(http.StatusForbidden, apierrors.Envelope(apiErr))
			return
		}

		c.Set(PRINCIPAL_KEY, principal)
		c.Next()
	}
}

// parseRSAPublicKey parses an RSA public key from PEM, PKIX or PKCS1
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}
