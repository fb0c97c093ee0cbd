package websocket

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/internal/utils"
)

// UserDirectory supplies the denormalized display attributes captured at
// connection time. Implemented by the user repo.
type UserDirectory interface {
	DisplayInfo(ctx context.Context, userID string) (displayName, avatarURL string, err error)
}

func JWTWebSocketAuth(publicKey *rsa.PublicKey, rdb *redis.Client, users UserDirectory) AuthenticatorFunc {
	return func(r *http.Request) (*Identity, error) {
		fp, ok := r.Context().Value(middleware.FingerprintKey).(string)
		if !ok || fp == "" {
			return nil, &AuthError{Message: "missing device fingerprint"}
		}

		token := getTokenFromRequest(r)

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				// Cookies can't be set during the ws handshake; the client
				// must refresh over HTTP and reconnect.
				return nil, &AuthError{Message: "token expired, please refresh and reconnect"}
			}
			return nil, &AuthError{Message: "invalid token"}
		}

		sessionKey := fmt.Sprintf("session:%s:%s", claims.Sub, fp)
		exists, err := rdb.Exists(r.Context(), sessionKey).Result()
		if err != nil || exists == 0 {
			return nil, &AuthError{Message: "session not found or revoked"}
		}

		identity := &Identity{UserID: claims.Sub, DisplayName: claims.Username}
		if users != nil {
			if name, avatar, err := users.DisplayInfo(r.Context(), claims.Sub); err == nil {
				identity.DisplayName = name
				identity.AvatarURL = avatar
			}
		}
		return identity, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

func (h *WebSocketHandler) authenticateConnection(r *http.Request) (*Identity, error) {
	if h.authenticator == nil {
		// Default authentication - extract from query param
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			return nil, &AuthError{Message: "user_id is required"}
		}
		return &Identity{UserID: userID, DisplayName: userID}, nil
	}
	return h.authenticator(r)
}

func (h *WebSocketHandler) getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}
