package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/janhq/hf-mcp/internal/config"
	"github.com/janhq/hf-mcp/internal/utils/platformerrors"
)

// ContextKeyClaims is the gin context key holding the verified token claims.
const ContextKeyClaims = "auth_claims"

// Validator validates bearer JWTs on the HTTP transport using JWKS.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled || cfg.IsStdio() {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Enabled reports whether requests are checked.
func (v *Validator) Enabled() bool {
	return v != nil && v.jwks != nil
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v.Enabled() {
		v.jwks.EndBackground()
	}
}

// Middleware enforces JWT auth when enabled.
func (v *Validator) Middleware() gin.HandlerFunc {
	if !v.Enabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	}
	if v.cfg.AuthAudience != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(v.cfg.AuthAudience))
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc, parserOptions...)
		if err != nil || !token.Valid {
			v.log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      message,
		"request_id": platformerrors.RequestIDFromContext(c.Request.Context()),
	})
}
