package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signingKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key, &key.PublicKey
}

func TestIssueAndVerifyTokens(t *testing.T) {
	private, public := signingKeys(t)

	access, refresh, jti, err := IssueNewTokens("user-1", "alice", private)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := ParseAndVerifySign(access, public)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "alice", claims.Username)
	assert.Nil(t, claims.Jti, "access token carries no jti")

	refreshClaims, err := ParseAndVerifySign(refresh, public)
	require.NoError(t, err)
	require.NotNil(t, refreshClaims.Jti)
	assert.Equal(t, jti, *refreshClaims.Jti)
	assert.Greater(t, refreshClaims.Exp, claims.Exp, "refresh outlives access")
}

func TestParseAndVerifySignRejectsWrongKey(t *testing.T) {
	private, _ := signingKeys(t)
	_, otherPublic := signingKeys(t)

	access, _, _, err := IssueNewTokens("user-1", "alice", private)
	require.NoError(t, err)

	_, err = ParseAndVerifySign(access, otherPublic)
	assert.Error(t, err)
}

func TestParseAndVerifySignRejectsExpired(t *testing.T) {
	private, public := signingKeys(t)

	expired := &Claims{
		Sub:      "user-1",
		Username: "alice",
		Iat:      1000,
		Exp:      2000,
	}
	token, err := GenerateSign(expired, private)
	require.NoError(t, err)

	_, err = ParseAndVerifySign(token, public)
	assert.Error(t, err)
}
