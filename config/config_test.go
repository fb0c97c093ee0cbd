package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYaml = `
app:
  name: studioo
  port: ":8080"
database:
  postgres:
    url: "postgres://localhost:5432/studioo?sslmode=disable"
  redis:
    addr: "localhost:6379"
  mongo:
    url: "mongodb://localhost:27017"
`

const tunedYaml = minimalYaml + `
collab:
  room_sweep_interval: 10m
  room_inactive_after: 1h
  participant_sweep_interval: 30s
  participant_inactive_after: 5m
worker:
  num: 8
  max_retry: 2
`

func loadFromYaml(t *testing.T, yaml string) {
	t.Helper()
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "application.yaml"), []byte(yaml), 0644))

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(originalDir) })
	require.NoError(t, os.Chdir(tempDir))

	require.NoError(t, LoadConfig())
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	loadFromYaml(t, minimalYaml)

	assert.Equal(t, "studioo", Conf.App.Name)
	assert.Equal(t, ":8080", Conf.App.Port)

	// untouched collab block falls back to the sweep defaults
	assert.Equal(t, 5*time.Minute, Conf.COLLAB.RoomSweepInterval)
	assert.Equal(t, 30*time.Minute, Conf.COLLAB.RoomInactiveAfter)
	assert.Equal(t, 1*time.Minute, Conf.COLLAB.ParticipantSweepInterval)
	assert.Equal(t, 15*time.Minute, Conf.COLLAB.ParticipantInactiveAfter)
	assert.Equal(t, 5, Conf.WORKER.Num)
	assert.Equal(t, 5, Conf.WORKER.MaxRetry)
}

func TestLoadConfigHonorsTuning(t *testing.T) {
	loadFromYaml(t, tunedYaml)

	assert.Equal(t, 10*time.Minute, Conf.COLLAB.RoomSweepInterval)
	assert.Equal(t, time.Hour, Conf.COLLAB.RoomInactiveAfter)
	assert.Equal(t, 30*time.Second, Conf.COLLAB.ParticipantSweepInterval)
	assert.Equal(t, 5*time.Minute, Conf.COLLAB.ParticipantInactiveAfter)
	assert.Equal(t, 8, Conf.WORKER.Num)
	assert.Equal(t, 2, Conf.WORKER.MaxRetry)
}

func TestLoadConfigMissingFile(t *testing.T) {
	tempDir := t.TempDir()

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(originalDir) })
	require.NoError(t, os.Chdir(tempDir))

	assert.Error(t, LoadConfig())
}
