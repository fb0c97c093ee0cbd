package collab

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Two independent sweeps catch what the transport failed to report: the
// participant sweep evicts individually silent members, the room sweep
// reaps rooms that are empty or have had no activity at all.

func (m *Manager) roomSweepLoop() {
	ticker := time.NewTicker(m.cfg.RoomSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sweepRooms()
		}
	}
}

func (m *Manager) participantSweepLoop() {
	ticker := time.NewTicker(m.cfg.ParticipantSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.sweepParticipants()
		}
	}
}

func (m *Manager) sweepRooms() {
	now := m.now()
	reaped := 0

	m.mu.Lock()
	for id, room := range m.rooms {
		room.mu.Lock()
		stale := now.Sub(room.lastActivity) >= m.cfg.RoomInactiveAfter
		if len(room.participants) == 0 || stale {
			room.closed = true
			for uid := range room.participants {
				// removal events were missed somewhere; self-heal the index
				m.indexRemove(uid, id)
				log.Warn().Str("roomID", id).Str("userID", uid).Msg("collab: dropping index entry for participant of reaped room")
			}
			delete(m.rooms, id)
			reaped++
		}
		room.mu.Unlock()
	}
	m.mu.Unlock()

	if reaped > 0 {
		log.Info().Int("reaped", reaped).Msg("collab: room sweep completed")
	}
}

func (m *Manager) sweepParticipants() {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mu.RUnlock()

	now := m.now()
	for _, room := range rooms {
		var removed []string
		room.mu.Lock()
		for uid, p := range room.participants {
			if now.Sub(p.LastActivity) >= m.cfg.ParticipantInactiveAfter {
				delete(room.participants, uid)
				m.indexRemove(uid, room.ID)
				removed = append(removed, uid)
			}
		}
		var targets []Conn
		if len(removed) > 0 {
			// removal counts as activity so the room sweep leaves a
			// window for new joiners before reaping the room
			room.lastActivity = now
			targets = room.conns("")
		}
		room.mu.Unlock()

		for _, uid := range removed {
			deliver(targets, marshalEvent(EventInactiveRemoved, ParticipantLeftPayload{RoomID: room.ID, UserID: uid}, now))
			log.Info().Str("roomID", room.ID).Str("userID", uid).Msg("collab: inactive participant removed")
		}
	}
}
