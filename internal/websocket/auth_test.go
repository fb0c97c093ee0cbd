package websocket

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatat123/studioo-backend/internal/middleware"
	"github.com/gatat123/studioo-backend/internal/utils"
)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key, &key.PublicKey
}

func requestWithFingerprint(t *testing.T, fp string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if fp != "" {
		r = r.WithContext(context.WithValue(r.Context(), middleware.FingerprintKey, fp))
	}
	return r
}

func TestJWTWebSocketAuth(t *testing.T) {
	private, public := testKeys(t)

	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	access, _, _, err := utils.IssueNewTokens("user-1", "alice", private)
	require.NoError(t, err)

	// the login path leaves this marker behind
	fp := "device-fp"
	require.NoError(t, mockRedis.Set(fmt.Sprintf("session:%s:%s", "user-1", fp), "jti"))

	auth := JWTWebSocketAuth(public, rdb, nil)

	r := requestWithFingerprint(t, fp)
	r.Header.Set("Authorization", "Bearer "+access)

	identity, err := auth(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "alice", identity.DisplayName)
}

func TestJWTWebSocketAuthFailures(t *testing.T) {
	private, public := testKeys(t)

	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	access, _, _, err := utils.IssueNewTokens("user-1", "alice", private)
	require.NoError(t, err)

	auth := JWTWebSocketAuth(public, rdb, nil)

	// missing fingerprint
	r := requestWithFingerprint(t, "")
	r.Header.Set("Authorization", "Bearer "+access)
	_, err = auth(r)
	assert.Error(t, err)

	// no token at all
	r = requestWithFingerprint(t, "fp")
	_, err = auth(r)
	assert.Error(t, err)

	// valid token but no session marker in redis
	r = requestWithFingerprint(t, "fp")
	r.Header.Set("Authorization", "Bearer "+access)
	_, err = auth(r)
	assert.Error(t, err, "revoked or absent session must be rejected")

	// token signed by someone else
	otherPrivate, _ := testKeys(t)
	forged, _, _, err := utils.IssueNewTokens("user-1", "alice", otherPrivate)
	require.NoError(t, err)
	r = requestWithFingerprint(t, "fp")
	r.Header.Set("Authorization", "Bearer "+forged)
	_, err = auth(r)
	assert.Error(t, err)
}

func TestGetTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Equal(t, "", getTokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	assert.Equal(t, "from-query", getTokenFromRequest(r))

	// header wins over query
	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", getTokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", getTokenFromRequest(r))
}

func TestGetClientIP(t *testing.T) {
	h := &WebSocketHandler{}

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "10.0.0.1:51234"
	assert.Equal(t, "10.0.0.1", h.getClientIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", h.getClientIP(r))

	r.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", h.getClientIP(r))
}

func TestIPSlotAccounting(t *testing.T) {
	h := &WebSocketHandler{
		ConnectionsPerIP: 2,
		perIPConn:        make(map[string]int),
	}

	require.True(t, h.acquireIPSlot("1.2.3.4"))
	require.True(t, h.acquireIPSlot("1.2.3.4"))
	assert.False(t, h.acquireIPSlot("1.2.3.4"), "third connection from the same address is refused")
	assert.True(t, h.acquireIPSlot("5.6.7.8"), "other addresses are unaffected")

	h.releaseIPSlot("1.2.3.4")
	assert.True(t, h.acquireIPSlot("1.2.3.4"))
}

func TestAuthenticateConnectionFallback(t *testing.T) {
	h := &WebSocketHandler{}

	r := httptest.NewRequest(http.MethodGet, "/ws?user_id=u1", nil)
	identity, err := h.authenticateConnection(r)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	_, err = h.authenticateConnection(r)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, public := testKeys(t)

	mockRedis := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mockRedis.Addr()})
	defer rdb.Close()

	auth := JWTWebSocketAuth(public, rdb, nil)

	r := requestWithFingerprint(t, "fp")
	r.Header.Set("Authorization", "Bearer not-a-token")
	_, err := auth(r)
	assert.Error(t, err)
}
