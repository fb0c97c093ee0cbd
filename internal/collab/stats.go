package collab

// Stats is the introspection snapshot consumed by operational tooling.
type Stats struct {
	TotalRooms        int            `json:"total_rooms"`
	TotalParticipants int            `json:"total_participants"`
	RoomsByKind       map[string]int `json:"rooms_by_kind"`
	AvgParticipants   float64        `json:"avg_participants_per_room"`
}

func (m *Manager) Stats() Stats {
	stats := Stats{RoomsByKind: make(map[string]int)}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, room := range m.rooms {
		room.mu.RLock()
		n := len(room.participants)
		room.mu.RUnlock()

		stats.TotalRooms++
		stats.TotalParticipants += n
		stats.RoomsByKind[string(room.Kind)]++
	}

	if stats.TotalRooms > 0 {
		stats.AvgParticipants = float64(stats.TotalParticipants) / float64(stats.TotalRooms)
	}
	return stats
}
