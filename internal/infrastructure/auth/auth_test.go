package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/hf-mcp/internal/config"
)

const (
	testIssuer   = "https://auth.example.com/realms/jan"
	testAudience = "hf-mcp"
	testKID      = "test-key"
)

func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	n := base64.RawURLEncoding.EncodeToString(key.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[{"kty":"RSA","kid":"` + testKID + `","alg":"RS256","use":"sig","n":"` + n + `","e":"` + e + `"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, issuer, audience string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": issuer,
		"aud": audience,
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = testKID
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newRouter(v *Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(v.Middleware())
	router.POST("/v1/mcp", func(c *gin.Context) {
		claims, _ := c.Get(ContextKeyClaims)
		c.JSON(http.StatusOK, gin.H{"authenticated": claims != nil})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/mcp", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareDisabledPassesThrough(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{Transport: config.TransportHTTP}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, v.Enabled())

	rec := doRequest(newRouter(v), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStdioNeverFetchesJWKS(t *testing.T) {
	cfg := &config.Config{
		Transport:   config.TransportStdio,
		AuthEnabled: true,
		AuthJWKSURL: "http://127.0.0.1:1/unreachable",
	}
	v, err := NewValidator(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, v.Enabled())
}

func TestMiddlewareValidatesTokens(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwks := newJWKSServer(t, key)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v, err := NewValidator(ctx, &config.Config{
		Transport:    config.TransportHTTP,
		AuthEnabled:  true,
		AuthIssuer:   testIssuer,
		AuthAudience: testAudience,
		AuthJWKSURL:  jwks.URL,
	}, zerolog.Nop())
	require.NoError(t, err)
	defer v.Close()
	router := newRouter(v)

	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = doRequest(router, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "Bearer "+signToken(t, key, "https://other.example.com", testAudience))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	rec = doRequest(router, "Bearer "+signToken(t, key, testIssuer, "someone-else"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "Bearer "+signToken(t, key, testIssuer, testAudience))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken("Token abc"))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
}
