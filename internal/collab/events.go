package collab

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Inbound event types (client -> server).
const (
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventUpdateStatus   = "update-status"
	EventUpdatePresence = "update-presence"
)

// Outbound event types (server -> client).
const (
	EventRoomJoined        = "room-joined"
	EventParticipantJoined = "participant-joined"
	EventParticipantLeft   = "participant-left"
	EventStatusChanged     = "participant-status-changed"
	EventPresenceUpdated   = "participant-presence-updated"
	EventInactiveRemoved   = "participant-inactive-removed"
	EventError             = "error"
	EventProjectUpdated    = "project-updated"
	EventProjectInvited    = "project-participant-invited"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type ParticipantInfo struct {
	UserID       string         `json:"userId"`
	DisplayName  string         `json:"displayName"`
	AvatarURL    string         `json:"avatarUrl,omitempty"`
	Role         Role           `json:"role"`
	Status       Status         `json:"status"`
	Presence     map[string]any `json:"presence,omitempty"`
	JoinedAt     time.Time      `json:"joinedAt"`
	LastActivity time.Time      `json:"lastActivity"`
}

func participantInfo(p *Participant) ParticipantInfo {
	presence := make(map[string]any, len(p.Presence))
	for k, v := range p.Presence {
		presence[k] = v
	}
	return ParticipantInfo{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		AvatarURL:    p.AvatarURL,
		Role:         p.Role,
		Status:       p.Status,
		Presence:     presence,
		JoinedAt:     p.JoinedAt,
		LastActivity: p.LastActivity,
	}
}

// RoomSnapshot is returned to the joining connection alone.
type RoomSnapshot struct {
	RoomID       string            `json:"roomId"`
	RoomType     RoomKind          `json:"roomType"`
	ResourceID   string            `json:"resourceId"`
	ProjectID    string            `json:"projectId,omitempty"`
	Participants []ParticipantInfo `json:"participants"`
}

type ParticipantJoinedPayload struct {
	RoomID string          `json:"roomId"`
	User   ParticipantInfo `json:"user"`
	Role   Role            `json:"role"`
}

type ParticipantLeftPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type StatusChangedPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Status Status `json:"status"`
}

type PresenceUpdatedPayload struct {
	RoomID   string         `json:"roomId"`
	UserID   string         `json:"userId"`
	Presence map[string]any `json:"presence"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// EncodeEvent frames a payload for direct delivery to one connection, e.g.
// the room-joined reply or a boundary error event.
func EncodeEvent(eventType string, data any) []byte {
	return marshalEvent(eventType, data, time.Now())
}

func marshalEvent(eventType string, data any, at time.Time) []byte {
	b, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: at.Unix()})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("collab: failed to marshal event")
		return nil
	}
	return b
}
