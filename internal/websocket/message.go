package websocket

import (
	stdjson "encoding/json"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IncomingEvent is the raw inbound frame; Data stays opaque until the type
// is known.
type IncomingEvent struct {
	Type string             `json:"type"`
	Data stdjson.RawMessage `json:"data"`
}

type JoinRoomPayload struct {
	Kind       string `json:"kind"`
	ResourceID string `json:"resourceId"`
}

type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

type UpdateStatusPayload struct {
	RoomID string `json:"roomId"`
	Status string `json:"status"`
}

type UpdatePresencePayload struct {
	RoomID   string         `json:"roomId"`
	Presence map[string]any `json:"presence"`
}
