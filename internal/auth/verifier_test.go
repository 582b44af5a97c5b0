package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":           "user-1",
		"email":         "alice@example.com",
		"role":          "authenticated",
		"aud":           "authenticated",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"app_metadata":  map[string]any{"role": "admin"},
		"user_metadata": map[string]any{"full_name": "Alice", "avatar_url": "https://img.test/a.png"},
	}
}

func TestVerifyHS256(t *testing.T) {
	v := newVerifier(nil, testSecret, "authenticated")

	claims, err := v.Verify(context.Background(), signHS256(t, testSecret, baseClaims()))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "admin", claims.AppRole)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, "https://img.test/a.png", claims.AvatarURL)
	require.False(t, claims.ExpiresAt.IsZero())
}

func TestVerifyRejections(t *testing.T) {
	v := newVerifier(nil, testSecret, "authenticated")
	ctx := context.Background()

	expired := baseClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err := v.Verify(ctx, signHS256(t, testSecret, expired))
	require.ErrorIs(t, err, ErrTokenExpired)

	wrongAudience := baseClaims()
	wrongAudience["aud"] = "anon"
	_, err = v.Verify(ctx, signHS256(t, testSecret, wrongAudience))
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = v.Verify(ctx, signHS256(t, "another-secret-another-secret-another", baseClaims()))
	require.ErrorIs(t, err, ErrTokenInvalid)

	noExpiry := baseClaims()
	delete(noExpiry, "exp")
	_, err = v.Verify(ctx, signHS256(t, testSecret, noExpiry))
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = v.Verify(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyNotConfigured(t *testing.T) {
	v := newVerifier(nil, "", "authenticated")

	_, err := v.Verify(context.Background(), "anything")
	require.True(t, errors.Is(err, ErrNotConfigured))
}

func TestVerifyRS256WithJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	set := map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA",
			"kid": "test-key",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	k, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, baseClaims())
	token.Header["kid"] = "test-key"
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	v := newVerifier(k.Keyfunc, "", "authenticated")
	claims, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)

	// Without a secret, HS256 tokens are refused.
	_, err = v.Verify(context.Background(), signHS256(t, testSecret, baseClaims()))
	require.ErrorIs(t, err, ErrTokenInvalid)
}
