package middleware

import (
	"errors"
	"net/http"
	"strings"

	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const UserIDHeader = "X-User-ID"

// IdentityConfig selects how callers are identified. With a JWTSecret every
// protected request needs an HS256 bearer token; without one the X-User-ID
// header set by the gateway is trusted.
type IdentityConfig struct {
	JWTSecret   string
	PublicPaths []string
	Log         *logger.Logger
}

func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolveUserID(r, cfg.JWTSecret)

			if isPublicPath(r.URL.Path, cfg.PublicPaths) {
				if userID != "" {
					r = r.WithContext(WithUserID(r.Context(), userID))
				}
				next.ServeHTTP(w, r)
				return
			}

			if err != nil {
				cfg.Log.Warn("Request rejected by identity check",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"reason", err.Error(),
				)
				reject(w, cfg.Log, r, apperrors.Unauthorized("Authentication required"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func isPublicPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

var (
	errMissingToken   = errors.New("missing bearer token")
	errInvalidToken   = errors.New("invalid token")
	errMissingSubject = errors.New("token has no sub or user_id claim")
	errMissingHeader  = errors.New("missing " + UserIDHeader + " header")
)

func resolveUserID(r *http.Request, secret string) (string, error) {
	if secret == "" {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			return "", errMissingHeader
		}
		return userID, nil
	}

	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errMissingToken
	}
	return ParseUserToken(strings.TrimSpace(raw), secret)
}

// ParseUserToken validates an HS256 token and returns its sub claim, falling
// back to user_id.
func ParseUserToken(raw, secret string) (string, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", errInvalidToken
	}

	for _, claim := range []string{"sub", "user_id"} {
		if v, ok := claims[claim].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", errMissingSubject
}
