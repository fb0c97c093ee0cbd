package collab

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id     string
	userID string
	name   string
	avatar string

	mu     sync.Mutex
	frames [][]byte
}

func newFakeConn(userID string) *fakeConn {
	return &fakeConn{
		id:     "conn-" + userID,
		userID: userID,
		name:   "Name " + userID,
	}
}

func (c *fakeConn) ID() string          { return c.id }
func (c *fakeConn) UserID() string      { return c.userID }
func (c *fakeConn) DisplayName() string { return c.name }
func (c *fakeConn) AvatarURL() string   { return c.avatar }

func (c *fakeConn) TrySend(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeConn) events(t *testing.T) []Event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, 0, len(c.frames))
	for _, raw := range c.frames {
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		out = append(out, ev)
	}
	return out
}

func (c *fakeConn) eventTypes(t *testing.T) []string {
	t.Helper()
	var types []string
	for _, ev := range c.events(t) {
		types = append(types, ev.Type)
	}
	return types
}

type fakeStore struct {
	mu      sync.Mutex
	refs    map[string]ResourceRef // keyed by kind:resourceId
	roles   map[string]string      // keyed by projectId:userId
	creator map[string]string      // keyed by projectId
	fail    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		refs:    make(map[string]ResourceRef),
		roles:   make(map[string]string),
		creator: make(map[string]string),
	}
}

func (s *fakeStore) setResource(kind RoomKind, resourceID string, ref ResourceRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs[string(kind)+":"+resourceID] = ref
}

func (s *fakeStore) setRole(projectID, userID, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[projectID+":"+userID] = role
}

func (s *fakeStore) ProjectOf(_ context.Context, kind RoomKind, resourceID string) (ResourceRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ResourceRef{}, errors.New("store unavailable")
	}
	ref, ok := s.refs[string(kind)+":"+resourceID]
	if !ok {
		return ResourceRef{}, fmt.Errorf("unknown resource %s:%s", kind, resourceID)
	}
	return ref, nil
}

func (s *fakeStore) Participation(_ context.Context, projectID, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store unavailable")
	}
	role, ok := s.roles[projectID+":"+userID]
	if !ok {
		return "", errors.New("no participation record")
	}
	return role, nil
}

func (s *fakeStore) ProjectCreator(_ context.Context, projectID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("store unavailable")
	}
	creator, ok := s.creator[projectID]
	if !ok {
		return "", errors.New("unknown project")
	}
	return creator, nil
}

// long sweep intervals keep the background loops quiet; tests invoke the
// sweep functions directly
func testConfig() Config {
	return Config{
		RoomSweepInterval:        time.Hour,
		RoomInactiveAfter:        30 * time.Minute,
		ParticipantSweepInterval: time.Hour,
		ParticipantInactiveAfter: 15 * time.Minute,
	}
}

func newTestManager(t *testing.T, store *fakeStore) *Manager {
	t.Helper()
	m := NewManager(testConfig(), store)
	t.Cleanup(m.Close)
	return m
}

func seedProject(store *fakeStore, projectID string) {
	store.setResource(KindProject, projectID, ResourceRef{ProjectID: projectID})
	store.creator[projectID] = "creator"
}

func TestJoinRoomCreatesRoomAndIndex(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	conn := newFakeConn("u1")
	snap, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, "project:p1", snap.RoomID)
	assert.Equal(t, KindProject, snap.RoomType)
	assert.Equal(t, "p1", snap.ProjectID)
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, "u1", snap.Participants[0].UserID)
	assert.Equal(t, StatusActive, snap.Participants[0].Status)

	// reverse index must mirror room membership
	assert.Equal(t, []string{"project:p1"}, m.UserRooms("u1"))

	stats := m.Stats()
	assert.Equal(t, 1, stats.TotalRooms)
	assert.Equal(t, 1, stats.TotalParticipants)
	assert.Equal(t, 1, stats.RoomsByKind["project"])
}

func TestJoinRoomRejectsInvalidInput(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(t, store)

	conn := newFakeConn("u1")

	_, err := m.JoinRoom(context.Background(), conn, RoomKind("document"), "x")
	assert.Error(t, err, "unknown kind must be rejected")

	_, err = m.JoinRoom(context.Background(), conn, KindProject, "")
	assert.Error(t, err, "empty resource id must be rejected")
}

func TestJoinRoomIdempotentRejoin(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	store.setRole("p1", "u1", "member")
	m := newTestManager(t, store)

	other := newFakeConn("u2")
	_, err := m.JoinRoom(context.Background(), other, KindProject, "p1")
	require.NoError(t, err)

	conn := newFakeConn("u1")
	snap, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)
	require.Len(t, snap.Participants, 2)

	// role changes between joins are picked up on rejoin
	store.setRole("p1", "u1", "admin")
	snap, err = m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)
	require.Len(t, snap.Participants, 2, "rejoin must not duplicate the participant")

	var rejoined ParticipantInfo
	for _, p := range snap.Participants {
		if p.UserID == "u1" {
			rejoined = p
		}
	}
	assert.Equal(t, RoleAdmin, rejoined.Role)

	// the other member sees exactly one join announcement for u1
	joined := 0
	for _, ev := range other.events(t) {
		if ev.Type == EventParticipantJoined {
			joined++
		}
	}
	assert.Equal(t, 1, joined, "rejoin must not re-announce the participant")
}

func TestJoinBroadcastExcludesJoiner(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	first := newFakeConn("u1")
	_, err := m.JoinRoom(context.Background(), first, KindProject, "p1")
	require.NoError(t, err)

	second := newFakeConn("u2")
	_, err = m.JoinRoom(context.Background(), second, KindProject, "p1")
	require.NoError(t, err)

	assert.Contains(t, first.eventTypes(t), EventParticipantJoined)
	assert.NotContains(t, second.eventTypes(t), EventParticipantJoined, "joiner gets the snapshot, not its own join event")
}

func TestLeaveRoomPurgesEmptyRoom(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	conn := newFakeConn("u1")
	_, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)

	m.LeaveRoom(conn, "project:p1")

	stats := m.Stats()
	assert.Equal(t, 0, stats.TotalRooms, "empty room must be purged immediately")
	assert.Empty(t, m.UserRooms("u1"))

	// leaving again is a silent no-op
	m.LeaveRoom(conn, "project:p1")
	m.LeaveRoom(conn, "project:does-not-exist")
}

func TestRejoinAfterPurgeGetsFreshRoom(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	conn := newFakeConn("u1")
	_, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)
	require.NoError(t, m.UpdatePresence(conn, "project:p1", map[string]any{"cursor": "scene-3"}))

	m.LeaveRoom(conn, "project:p1")

	snap, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)
	require.Len(t, snap.Participants, 1)
	assert.Empty(t, snap.Participants[0].Presence, "a recreated room carries no stale presence")
}

func TestUpdateStatusBroadcastsToAll(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	a := newFakeConn("u1")
	b := newFakeConn("u2")
	_, err := m.JoinRoom(context.Background(), a, KindProject, "p1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), b, KindProject, "p1")
	require.NoError(t, err)

	require.NoError(t, m.UpdateStatus(a, "project:p1", StatusAway))

	// status is public: sender included
	assert.Contains(t, a.eventTypes(t), EventStatusChanged)
	assert.Contains(t, b.eventTypes(t), EventStatusChanged)

	assert.Error(t, m.UpdateStatus(a, "project:p1", Status("busy")), "unknown status must be rejected")
	assert.NoError(t, m.UpdateStatus(a, "project:gone", StatusIdle), "stale room is a silent no-op")
}

func TestUpdatePresenceMergesAndExcludesSender(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	a := newFakeConn("u1")
	b := newFakeConn("u2")
	_, err := m.JoinRoom(context.Background(), a, KindProject, "p1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), b, KindProject, "p1")
	require.NoError(t, err)

	require.NoError(t, m.UpdatePresence(a, "project:p1", map[string]any{"cursor": "scene-1", "tool": "pen"}))
	require.NoError(t, m.UpdatePresence(a, "project:p1", map[string]any{"cursor": "scene-2"}))

	assert.NotContains(t, a.eventTypes(t), EventPresenceUpdated, "sender must not receive its own presence echo")

	var last map[string]any
	for _, ev := range b.events(t) {
		if ev.Type != EventPresenceUpdated {
			continue
		}
		payload, ok := ev.Data.(map[string]any)
		require.True(t, ok)
		last, _ = payload["presence"].(map[string]any)
	}
	require.NotNil(t, last)
	assert.Equal(t, "scene-2", last["cursor"], "partial update overwrites the key")
	assert.Equal(t, "pen", last["tool"], "untouched keys survive the merge")

	assert.Error(t, m.UpdatePresence(a, "project:p1", nil), "empty presence payload must be rejected")
}

func TestRosterOrdering(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	store.creator["p1"] = "owner-user"
	store.setRole("p1", "admin-user", "admin")
	m := newTestManager(t, store)

	// join order deliberately disagrees with role rank
	for _, uid := range []string{"member-user", "owner-user", "admin-user"} {
		_, err := m.JoinRoom(context.Background(), newFakeConn(uid), KindProject, "p1")
		require.NoError(t, err)
	}

	roster, ok := m.RoomRoster("project:p1")
	require.True(t, ok)
	require.Len(t, roster, 3)

	assert.Equal(t, "owner-user", roster[0].UserID)
	assert.Equal(t, "admin-user", roster[1].UserID)
	assert.Equal(t, "member-user", roster[2].UserID)
}

func TestRosterTieBreaksOnJoinTime(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	base := time.Now()
	clock := base
	m.now = func() time.Time { return clock }

	for i, uid := range []string{"m1", "m2", "m3"} {
		clock = base.Add(time.Duration(i) * time.Second)
		_, err := m.JoinRoom(context.Background(), newFakeConn(uid), KindProject, "p1")
		require.NoError(t, err)
	}

	roster, ok := m.RoomRoster("project:p1")
	require.True(t, ok)
	require.Len(t, roster, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{roster[0].UserID, roster[1].UserID, roster[2].UserID})
}

func TestRoleDegradesToMemberOnStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.fail = true
	m := newTestManager(t, store)

	snap, err := m.JoinRoom(context.Background(), newFakeConn("u1"), KindProject, "p1")
	require.NoError(t, err, "store failure must not block joining")
	require.Len(t, snap.Participants, 1)
	assert.Equal(t, RoleMember, snap.Participants[0].Role)
	assert.Equal(t, "p1", snap.ProjectID, "project rooms keep their own id as project id")
}

func TestParticipantSweepRemovesOnlyInactive(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	base := time.Now()
	clock := base
	m.now = func() time.Time { return clock }

	stale := newFakeConn("stale")
	fresh := newFakeConn("fresh")
	watcher := newFakeConn("watcher")

	clock = base.Add(-16 * time.Minute)
	_, err := m.JoinRoom(context.Background(), stale, KindProject, "p1")
	require.NoError(t, err)

	clock = base.Add(-14 * time.Minute)
	_, err = m.JoinRoom(context.Background(), fresh, KindProject, "p1")
	require.NoError(t, err)

	clock = base
	_, err = m.JoinRoom(context.Background(), watcher, KindProject, "p1")
	require.NoError(t, err)

	m.sweepParticipants()

	roster, ok := m.RoomRoster("project:p1")
	require.True(t, ok)
	require.Len(t, roster, 2)
	for _, p := range roster {
		assert.NotEqual(t, "stale", p.UserID, "participant idle past the cutoff must be removed")
	}

	assert.Contains(t, watcher.eventTypes(t), EventInactiveRemoved)
	assert.Empty(t, m.UserRooms("stale"))
	assert.NotEmpty(t, m.UserRooms("fresh"))
}

func TestParticipantActivityDefersSweep(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	base := time.Now()
	clock := base.Add(-20 * time.Minute)
	m.now = func() time.Time { return clock }

	conn := newFakeConn("u1")
	_, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)

	// presence traffic refreshes the activity clock
	clock = base.Add(-5 * time.Minute)
	require.NoError(t, m.UpdatePresence(conn, "project:p1", map[string]any{"cursor": "x"}))

	clock = base
	m.sweepParticipants()

	roster, ok := m.RoomRoster("project:p1")
	require.True(t, ok)
	assert.Len(t, roster, 1, "recent activity must protect the participant")
}

func TestRoomSweepReapsInactiveRoom(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	m := newTestManager(t, store)

	base := time.Now()
	clock := base.Add(-45 * time.Minute)
	m.now = func() time.Time { return clock }

	_, err := m.JoinRoom(context.Background(), newFakeConn("u1"), KindProject, "p1")
	require.NoError(t, err)

	clock = base
	m.sweepRooms()

	stats := m.Stats()
	assert.Equal(t, 0, stats.TotalRooms, "room without activity past the cutoff is reaped")
	assert.Empty(t, m.UserRooms("u1"), "index entries of a reaped room are dropped")
}

func TestDisconnectLeavesAllRooms(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	store.setResource(KindScene, "s1", ResourceRef{ProjectID: "p1", SceneID: "s1"})
	store.setResource(KindScene, "s2", ResourceRef{ProjectID: "p1", SceneID: "s2"})
	m := newTestManager(t, store)

	conn := newFakeConn("u1")
	for _, res := range []string{"s1", "s2"} {
		_, err := m.JoinRoom(context.Background(), conn, KindScene, res)
		require.NoError(t, err)
	}
	_, err := m.JoinRoom(context.Background(), conn, KindProject, "p1")
	require.NoError(t, err)

	require.Len(t, m.UserRooms("u1"), 3)

	m.LeaveAllRooms(conn)

	stats := m.Stats()
	assert.Equal(t, 0, stats.TotalRooms)
	assert.Equal(t, 0, stats.TotalParticipants)
	assert.Empty(t, m.UserRooms("u1"))

	// second disconnect is harmless
	m.LeaveAllRooms(conn)
}

func TestBroadcastToProjectRooms(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	seedProject(store, "p2")
	store.setResource(KindScene, "s1", ResourceRef{ProjectID: "p1", SceneID: "s1"})
	m := newTestManager(t, store)

	inProject := newFakeConn("u1")
	inScene := newFakeConn("u2")
	elsewhere := newFakeConn("u3")

	_, err := m.JoinRoom(context.Background(), inProject, KindProject, "p1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), inScene, KindScene, "s1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), elsewhere, KindProject, "p2")
	require.NoError(t, err)

	m.BroadcastToProjectRooms("p1", EventProjectUpdated, map[string]any{"name": "renamed"}, "")

	assert.Contains(t, inProject.eventTypes(t), EventProjectUpdated)
	assert.Contains(t, inScene.eventTypes(t), EventProjectUpdated, "scene rooms of the project are included")
	assert.NotContains(t, elsewhere.eventTypes(t), EventProjectUpdated, "other projects stay quiet")
}

func TestStats(t *testing.T) {
	store := newFakeStore()
	seedProject(store, "p1")
	store.setResource(KindScene, "s1", ResourceRef{ProjectID: "p1", SceneID: "s1"})
	m := newTestManager(t, store)

	_, err := m.JoinRoom(context.Background(), newFakeConn("u1"), KindProject, "p1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), newFakeConn("u2"), KindProject, "p1")
	require.NoError(t, err)
	_, err = m.JoinRoom(context.Background(), newFakeConn("u3"), KindScene, "s1")
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, 2, stats.TotalRooms)
	assert.Equal(t, 3, stats.TotalParticipants)
	assert.Equal(t, 1, stats.RoomsByKind["project"])
	assert.Equal(t, 1, stats.RoomsByKind["scene"])
	assert.InDelta(t, 1.5, stats.AvgParticipants, 0.001)
}
