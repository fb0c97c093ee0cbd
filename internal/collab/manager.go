package collab

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gatat123/studioo-backend/config"
	"github.com/rs/zerolog/log"
)

type Config struct {
	RoomSweepInterval        time.Duration
	RoomInactiveAfter        time.Duration
	ParticipantSweepInterval time.Duration
	ParticipantInactiveAfter time.Duration
}

// ConfigFromApp lifts the COLLAB block out of the loaded application config.
func ConfigFromApp() Config {
	return Config{
		RoomSweepInterval:        config.Conf.COLLAB.RoomSweepInterval,
		RoomInactiveAfter:        config.Conf.COLLAB.RoomInactiveAfter,
		ParticipantSweepInterval: config.Conf.COLLAB.ParticipantSweepInterval,
		ParticipantInactiveAfter: config.Conf.COLLAB.ParticipantInactiveAfter,
	}
}

// Manager owns every active room and the user->rooms reverse index. Rooms
// are created lazily on first join and purged the moment they empty. All
// transient presence state lives here, never in the persisted store.
//
// Lock order: registry mu -> room mu -> index mu. Broadcast writes always
// happen after the room lock is released.
type Manager struct {
	cfg   Config
	store Store

	mu    sync.RWMutex
	rooms map[string]*Room

	indexMu   sync.RWMutex
	userRooms map[string]map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc

	// now is swappable in tests
	now func() time.Time
}

func NewManager(cfg Config, store Store) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:       cfg,
		store:     store,
		rooms:     make(map[string]*Room),
		userRooms: make(map[string]map[string]struct{}),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}

	go m.roomSweepLoop()
	go m.participantSweepLoop()

	return m
}

// Close stops the sweepers. Rooms are in-memory only, nothing to flush.
func (m *Manager) Close() {
	m.cancel()
	log.Info().Msg("collab: manager closed")
}

// JoinRoom is idempotent per (user, room): rejoining refreshes the role and
// activity timestamps instead of erroring. The role resolution is the only
// I/O on this path and happens before the room lock is taken. Resolution
// failure degrades to member rather than blocking collaboration.
func (m *Manager) JoinRoom(ctx context.Context, conn Conn, kind RoomKind, resourceID string) (*RoomSnapshot, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid room kind %q", kind)
	}
	if resourceID == "" {
		return nil, fmt.Errorf("resourceId is required")
	}

	userID := conn.UserID()
	ref, role := m.resolveRole(ctx, kind, resourceID, userID)

	for {
		now := m.now()
		room := m.getOrCreateRoom(kind, resourceID, ref, now)

		room.mu.Lock()
		if room.closed {
			// lost a race with a purge, take a fresh room
			room.mu.Unlock()
			continue
		}

		p, rejoin := room.participants[userID]
		if rejoin {
			p.Role = role
			p.DisplayName = conn.DisplayName()
			p.AvatarURL = conn.AvatarURL()
			p.LastActivity = now
			p.conn = conn
		} else {
			p = &Participant{
				UserID:       userID,
				DisplayName:  conn.DisplayName(),
				AvatarURL:    conn.AvatarURL(),
				Role:         role,
				Status:       StatusActive,
				Presence:     make(map[string]any),
				JoinedAt:     now,
				LastActivity: now,
				conn:         conn,
			}
			room.participants[userID] = p
		}
		room.lastActivity = now
		m.indexAdd(userID, room.ID)

		snapshot := &RoomSnapshot{
			RoomID:       room.ID,
			RoomType:     room.Kind,
			ResourceID:   room.ResourceID,
			ProjectID:    room.ProjectID,
			Participants: room.roster(),
		}
		var targets []Conn
		var joined ParticipantInfo
		if !rejoin {
			targets = room.conns(userID)
			joined = participantInfo(p)
		}
		room.mu.Unlock()

		if !rejoin {
			deliver(targets, marshalEvent(EventParticipantJoined, ParticipantJoinedPayload{
				RoomID: room.ID,
				User:   joined,
				Role:   role,
			}, now))
		}

		log.Info().Str("roomID", room.ID).Str("userID", userID).Str("role", string(role)).Bool("rejoin", rejoin).Msg("collab: participant joined")
		return snapshot, nil
	}
}

// LeaveRoom removes the connection's user from the named room. A stale room
// id is a silent no-op. The room is purged the instant it empties.
func (m *Manager) LeaveRoom(conn Conn, roomID string) {
	m.removeParticipant(roomID, conn.UserID(), EventParticipantLeft)
}

// LeaveAllRooms is the transport-disconnect path: it walks the reverse index
// instead of scanning every room, and is safe to call repeatedly.
func (m *Manager) LeaveAllRooms(conn Conn) {
	userID := conn.UserID()
	for _, roomID := range m.UserRooms(userID) {
		m.removeParticipant(roomID, userID, EventParticipantLeft)
	}
}

func (m *Manager) removeParticipant(roomID, userID, eventType string) {
	room := m.getRoom(roomID)
	if room == nil {
		return
	}

	now := m.now()
	room.mu.Lock()
	if _, ok := room.participants[userID]; !ok {
		room.mu.Unlock()
		return
	}
	delete(room.participants, userID)
	room.lastActivity = now
	m.indexRemove(userID, roomID)
	empty := len(room.participants) == 0
	targets := room.conns("")
	room.mu.Unlock()

	deliver(targets, marshalEvent(eventType, ParticipantLeftPayload{RoomID: roomID, UserID: userID}, now))
	log.Info().Str("roomID", roomID).Str("userID", userID).Str("event", eventType).Msg("collab: participant removed")

	if empty {
		m.purgeRoom(roomID, room)
	}
}

// getOrCreateRoom uses the double-checked idiom so the common path is a
// read lock on the registry.
func (m *Manager) getOrCreateRoom(kind RoomKind, resourceID string, ref ResourceRef, now time.Time) *Room {
	id := RoomID(kind, resourceID)

	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok {
		return room
	}
	room = newRoom(kind, resourceID, ref, now)
	m.rooms[id] = room
	log.Info().Str("roomID", id).Str("kind", string(kind)).Msg("collab: room created")
	return room
}

func (m *Manager) getRoom(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

func (m *Manager) purgeRoom(roomID string, room *Room) {
	m.mu.Lock()
	room.mu.Lock()
	if !room.closed && len(room.participants) == 0 {
		room.closed = true
		delete(m.rooms, roomID)
		log.Info().Str("roomID", roomID).Msg("collab: empty room purged")
	}
	room.mu.Unlock()
	m.mu.Unlock()
}

// resolveRole determines the user's effective role for the project owning
// (kind, resourceID). Creator status is authoritative; any store failure
// degrades to member because presence is non-authoritative.
func (m *Manager) resolveRole(ctx context.Context, kind RoomKind, resourceID, userID string) (ResourceRef, Role) {
	ref, err := m.store.ProjectOf(ctx, kind, resourceID)
	if err != nil {
		if kind == KindProject {
			ref.ProjectID = resourceID
		}
		log.Warn().Err(err).Str("kind", string(kind)).Str("resourceID", resourceID).Msg("collab: resource lookup failed, degrading to member")
		return ref, RoleMember
	}

	creator, err := m.store.ProjectCreator(ctx, ref.ProjectID)
	if err == nil && creator == userID {
		return ref, RoleOwner
	}

	persisted, err := m.store.Participation(ctx, ref.ProjectID, userID)
	if err != nil {
		log.Warn().Err(err).Str("projectID", ref.ProjectID).Str("userID", userID).Msg("collab: no participation record, degrading to member")
		return ref, RoleMember
	}

	switch Role(persisted) {
	case RoleOwner:
		return ref, RoleOwner
	case RoleAdmin:
		return ref, RoleAdmin
	default:
		return ref, RoleMember
	}
}

// UserRooms returns a copy of the reverse-index entry for a user.
func (m *Manager) UserRooms(userID string) []string {
	m.indexMu.RLock()
	defer m.indexMu.RUnlock()
	out := make([]string, 0, len(m.userRooms[userID]))
	for id := range m.userRooms[userID] {
		out = append(out, id)
	}
	return out
}

func (m *Manager) indexAdd(userID, roomID string) {
	m.indexMu.Lock()
	defer m.indexMu.Unlock()
	set, ok := m.userRooms[userID]
	if !ok {
		set = make(map[string]struct{})
		m.userRooms[userID] = set
	}
	set[roomID] = struct{}{}
}

func (m *Manager) indexRemove(userID, roomID string) {
	m.indexMu.Lock()
	defer m.indexMu.Unlock()
	if set, ok := m.userRooms[userID]; ok {
		delete(set, roomID)
		if len(set) == 0 {
			delete(m.userRooms, userID)
		}
	}
}

func deliver(targets []Conn, data []byte) {
	if data == nil {
		return
	}
	for _, c := range targets {
		if err := c.TrySend(data); err != nil {
			// transport owns slow-consumer handling, nothing to do here
			log.Debug().Err(err).Str("connID", c.ID()).Msg("collab: event dropped")
		}
	}
}
