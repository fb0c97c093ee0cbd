package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatat123/studioo-backend/internal/collab"
)

type stubStore struct{}

func (stubStore) ProjectOf(_ context.Context, kind collab.RoomKind, resourceID string) (collab.ResourceRef, error) {
	return collab.ResourceRef{ProjectID: "p1"}, nil
}

func (stubStore) Participation(_ context.Context, projectID, userID string) (string, error) {
	return "member", nil
}

func (stubStore) ProjectCreator(_ context.Context, projectID string) (string, error) {
	return "creator", nil
}

func newTestClient(t *testing.T) (*Client, *collab.Manager) {
	t.Helper()

	manager := collab.NewManager(collab.Config{
		RoomSweepInterval:        time.Hour,
		RoomInactiveAfter:        30 * time.Minute,
		ParticipantSweepInterval: time.Hour,
		ParticipantInactiveAfter: 15 * time.Minute,
	}, stubStore{})
	t.Cleanup(manager.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client := &Client{
		ConnID:   "conn-1",
		Identity: Identity{UserID: "u1", DisplayName: "User One"},
		send:     make(chan []byte, 16),
		manager:  manager,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: time.Now(),
	}
	return client, manager
}

func receiveEvent(t *testing.T, c *Client) collab.Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev collab.Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("expected an event on the send channel")
		return collab.Event{}
	}
}

func TestDispatchJoinRoom(t *testing.T) {
	client, manager := newTestClient(t)

	client.dispatch([]byte(`{"type":"join-room","data":{"kind":"project","resourceId":"p1"}}`))

	ev := receiveEvent(t, client)
	assert.Equal(t, collab.EventRoomJoined, ev.Type)

	roster, ok := manager.RoomRoster("project:p1")
	require.True(t, ok)
	require.Len(t, roster, 1)
	assert.Equal(t, "u1", roster[0].UserID)
	assert.Equal(t, "User One", roster[0].DisplayName)
}

func TestDispatchJoinRoomValidation(t *testing.T) {
	client, _ := newTestClient(t)

	client.dispatch([]byte(`{"type":"join-room","data":{"kind":"project"}}`))
	ev := receiveEvent(t, client)
	assert.Equal(t, collab.EventError, ev.Type)

	client.dispatch([]byte(`{"type":"join-room","data":{"kind":"document","resourceId":"x"}}`))
	ev = receiveEvent(t, client)
	assert.Equal(t, collab.EventError, ev.Type)
}

func TestDispatchLeaveRoom(t *testing.T) {
	client, manager := newTestClient(t)

	client.dispatch([]byte(`{"type":"join-room","data":{"kind":"scene","resourceId":"s1"}}`))
	receiveEvent(t, client)

	client.dispatch([]byte(`{"type":"leave-room","data":{"roomId":"scene:s1"}}`))

	_, ok := manager.RoomRoster("scene:s1")
	assert.False(t, ok, "room should be purged after the only participant leaves")
}

func TestDispatchStatusAndPresence(t *testing.T) {
	client, manager := newTestClient(t)

	client.dispatch([]byte(`{"type":"join-room","data":{"kind":"project","resourceId":"p1"}}`))
	receiveEvent(t, client)

	client.dispatch([]byte(`{"type":"update-status","data":{"roomId":"project:p1","status":"away"}}`))
	client.dispatch([]byte(`{"type":"update-presence","data":{"roomId":"project:p1","presence":{"cursor":"scene-2"}}}`))

	roster, ok := manager.RoomRoster("project:p1")
	require.True(t, ok)
	require.Len(t, roster, 1)
	assert.Equal(t, collab.StatusAway, roster[0].Status)
	assert.Equal(t, "scene-2", roster[0].Presence["cursor"])

	// status broadcast includes the sender
	ev := receiveEvent(t, client)
	assert.Equal(t, collab.EventStatusChanged, ev.Type)
}

func TestDispatchMalformed(t *testing.T) {
	client, _ := newTestClient(t)

	client.dispatch([]byte(`not json`))
	ev := receiveEvent(t, client)
	assert.Equal(t, collab.EventError, ev.Type)

	client.dispatch([]byte(`{"type":"no-such-event"}`))
	ev = receiveEvent(t, client)
	assert.Equal(t, collab.EventError, ev.Type)
}

func TestTrySendBufferFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &Client{
		send:   make(chan []byte, 1),
		ctx:    ctx,
		cancel: cancel,
	}

	require.NoError(t, client.TrySend([]byte("one")))
	err := client.TrySend([]byte("two"))
	assert.ErrorIs(t, err, errSendBufferFull, "a full buffer must fail fast, never block")
}
