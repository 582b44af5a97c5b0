package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"goal-tracker-go/internal/auth"
	"goal-tracker-go/internal/config"
	"goal-tracker-go/pkg/logger"
)

type TokenVerifier interface {
	Configured() bool
	Verify(ctx context.Context, token string) (auth.Claims, error)
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error
}

type JWTAuth struct {
	verifier TokenVerifier
	profiles ProfileSaver
	log      logger.Logger
	skipAuth bool
	mockUser User
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID        string
	Email     string
	Role      string
	Name      string
	AvatarURL string
}

func NewJWTAuth(cfg config.SupabaseConfig, verifier TokenVerifier, profiles ProfileSaver, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		verifier: verifier,
		profiles: profiles,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.ToLower(strings.TrimSpace(cfg.MockUserEmail)),
			Role:  "authenticated",
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.saveProfile(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		if a.verifier == nil || !a.verifier.Configured() {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "invalid_token", "missing bearer token")
			return
		}

		claims, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				unauthorized(w, "token_expired", "token expired")
			case errors.Is(err, auth.ErrNotConfigured):
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			default:
				a.log.Debug("auth: token rejected", "error", err)
				unauthorized(w, "invalid_token", "invalid token")
			}
			return
		}

		user := User{
			ID:        claims.Subject,
			Email:     strings.ToLower(claims.Email),
			Role:      claims.Role,
			Name:      claims.Name,
			AvatarURL: claims.AvatarURL,
		}
		a.saveProfile(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *JWTAuth) saveProfile(ctx context.Context, user User) {
	if a.profiles == nil {
		return
	}
	if err := a.profiles.UpsertProfile(ctx, user.ID, user.Email, user.Name, user.AvatarURL); err != nil {
		a.log.InternalError("auth: upsert profile failed", err, "user_id", user.ID)
	}
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, code, message)
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
