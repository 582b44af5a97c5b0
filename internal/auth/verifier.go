// Package auth verifies Supabase access tokens locally. Asymmetric tokens
// are checked against the project's JWKS, legacy HS256 tokens against the
// shared JWT secret.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"goal-tracker-go/internal/config"
	"goal-tracker-go/pkg/logger"
)

var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrNotConfigured = errors.New("token verification not configured")
)

var validMethods = []string{"RS256", "ES256", "HS256"}

type Claims struct {
	Subject   string
	Email     string
	Role      string
	AppRole   string
	Name      string
	AvatarURL string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type Verifier struct {
	jwks     jwt.Keyfunc
	secret   []byte
	audience string
}

// NewVerifier builds a verifier from config. A JWKS endpoint that cannot be
// reached at startup is logged and HS256 verification stays available.
func NewVerifier(ctx context.Context, cfg config.SupabaseConfig, log logger.Logger) *Verifier {
	var jwks jwt.Keyfunc
	if url := strings.TrimSpace(cfg.JWKSURL); url != "" {
		k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
		if err != nil {
			log.Error("auth: jwks init failed", "url", url, "error", err)
		} else {
			jwks = k.Keyfunc
		}
	}
	return newVerifier(jwks, cfg.JWTSecret, cfg.JWTAudience)
}

func newVerifier(jwks jwt.Keyfunc, secret, audience string) *Verifier {
	v := &Verifier{jwks: jwks, audience: audience}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v
}

func (v *Verifier) Configured() bool {
	return v != nil && (v.jwks != nil || len(v.secret) > 0)
}

func (v *Verifier) Verify(ctx context.Context, token string) (Claims, error) {
	if !v.Configured() {
		return Claims{}, ErrNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(validMethods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, v.keyFor, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if parsed.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	claims := Claims{
		Subject:   parsed.Subject,
		Email:     parsed.Email,
		Role:      parsed.Role,
		AppRole:   stringFromMap(parsed.AppMetadata, "role"),
		Name:      firstNonEmpty(stringFromMap(parsed.UserMetadata, "name"), stringFromMap(parsed.UserMetadata, "full_name")),
		AvatarURL: stringFromMap(parsed.UserMetadata, "avatar_url"),
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}

func (v *Verifier) keyFor(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if len(v.secret) == 0 {
			return nil, errors.New("hs256 tokens not accepted")
		}
		return v.secret, nil
	}
	if v.jwks == nil {
		return nil, errors.New("no key set configured")
	}
	return v.jwks(token)
}

func stringFromMap(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key].(string)
	if !ok {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
