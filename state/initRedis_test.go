package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis_Success(t *testing.T) {
	mockRedis := miniredis.RunT(t)

	client, err := InitRedis(mockRedis.Addr(), "", 0)

	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestInitRedis_Auth(t *testing.T) {
	mockRedis := miniredis.RunT(t)
	mockRedis.RequireAuth("testpassword")

	client, err := InitRedis(mockRedis.Addr(), "testpassword", 0)
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Close()

	client, err = InitRedis(mockRedis.Addr(), "wrongpassword", 0)
	assert.Error(t, err, "wrong password must be rejected")
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestInitRedis_Unreachable(t *testing.T) {
	client, err := InitRedis("invalid-address:6379", "", 0)

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestInitRedis_SelectsDB(t *testing.T) {
	mockRedis := miniredis.RunT(t)

	client, err := InitRedis(mockRedis.Addr(), "", 5)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "testkey", "testvalue", time.Minute).Err())

	val, err := client.Get(ctx, "testkey").Result()
	require.NoError(t, err)
	assert.Equal(t, "testvalue", val)
}
