package collab

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// UpdateStatus changes a participant's coarse status. Status is public, so
// the change is broadcast to the whole room, sender included.
func (m *Manager) UpdateStatus(conn Conn, roomID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}

	room := m.getRoom(roomID)
	if room == nil {
		return nil
	}

	userID := conn.UserID()
	now := m.now()

	room.mu.Lock()
	p, ok := room.participants[userID]
	if !ok {
		room.mu.Unlock()
		return nil
	}
	p.Status = status
	p.LastActivity = now
	room.lastActivity = now
	targets := room.conns("")
	room.mu.Unlock()

	deliver(targets, marshalEvent(EventStatusChanged, StatusChangedPayload{
		RoomID: roomID,
		UserID: userID,
		Status: status,
	}, now))
	return nil
}

// UpdatePresence merges the partial attribute bag into the participant's
// presence. The sender is excluded from the broadcast: a client must not
// re-render its own cursor from a round-trip echo.
func (m *Manager) UpdatePresence(conn Conn, roomID string, partial map[string]any) error {
	if len(partial) == 0 {
		return fmt.Errorf("presence payload is required")
	}

	room := m.getRoom(roomID)
	if room == nil {
		return nil
	}

	userID := conn.UserID()
	now := m.now()

	room.mu.Lock()
	p, ok := room.participants[userID]
	if !ok {
		room.mu.Unlock()
		return nil
	}
	for k, v := range partial {
		p.Presence[k] = v
	}
	p.LastActivity = now
	room.lastActivity = now
	merged := make(map[string]any, len(p.Presence))
	for k, v := range p.Presence {
		merged[k] = v
	}
	targets := room.conns(userID)
	room.mu.Unlock()

	deliver(targets, marshalEvent(EventPresenceUpdated, PresenceUpdatedPayload{
		RoomID:   roomID,
		UserID:   userID,
		Presence: merged,
	}, now))
	return nil
}

// Broadcast delivers an event to every participant of one room, optionally
// excluding the originating user. A stale room id is a silent no-op.
func (m *Manager) Broadcast(roomID, eventType string, data any, excludeUserID string) {
	room := m.getRoom(roomID)
	if room == nil {
		return
	}

	room.mu.RLock()
	targets := room.conns(excludeUserID)
	room.mu.RUnlock()

	deliver(targets, marshalEvent(eventType, data, m.now()))
}

// BroadcastToProjectRooms fans out to every room of a project, scene and
// image rooms included. Used for project-wide events like a rename.
func (m *Manager) BroadcastToProjectRooms(projectID, eventType string, data any, excludeUserID string) {
	if projectID == "" {
		return
	}

	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		if room.ProjectID == projectID {
			rooms = append(rooms, room)
		}
	}
	m.mu.RUnlock()

	payload := marshalEvent(eventType, data, m.now())
	sent := 0
	for _, room := range rooms {
		room.mu.RLock()
		targets := room.conns(excludeUserID)
		room.mu.RUnlock()
		deliver(targets, payload)
		sent += len(targets)
	}
	log.Debug().Str("projectID", projectID).Str("event", eventType).Int("rooms", len(rooms)).Int("targets", sent).Msg("collab: project broadcast")
}

// RoomRoster returns the sorted roster of one room for introspection.
func (m *Manager) RoomRoster(roomID string) ([]ParticipantInfo, bool) {
	room := m.getRoom(roomID)
	if room == nil {
		return nil, false
	}
	room.mu.RLock()
	defer room.mu.RUnlock()
	return room.roster(), true
}
