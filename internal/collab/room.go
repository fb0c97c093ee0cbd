package collab

import (
	"sort"
	"sync"
	"time"
)

type RoomKind string

const (
	KindProject RoomKind = "project"
	KindScene   RoomKind = "scene"
	KindImage   RoomKind = "image"
)

func (k RoomKind) Valid() bool {
	switch k {
	case KindProject, KindScene, KindImage:
		return true
	}
	return false
}

// RoomID is the registry key: "<kind>:<resourceId>".
func RoomID(kind RoomKind, resourceID string) string {
	return string(kind) + ":" + resourceID
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

var roleRank = map[Role]int{
	RoleOwner:  0,
	RoleAdmin:  1,
	RoleMember: 2,
}

type Status string

const (
	StatusActive Status = "active"
	StatusIdle   Status = "idle"
	StatusAway   Status = "away"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusIdle, StatusAway:
		return true
	}
	return false
}

// Participant is one user's live membership record within one room. Display
// attributes are captured once at join time so broadcasts never touch the
// persisted store.
type Participant struct {
	UserID       string
	DisplayName  string
	AvatarURL    string
	Role         Role
	Status       Status
	Presence     map[string]any
	JoinedAt     time.Time
	LastActivity time.Time

	conn Conn
}

// Room groups the connections sharing interest in one resource. Scene and
// image rooms carry the owning project id so project-wide broadcasts reach
// them too. Each room is guarded by its own mutex; unrelated rooms never
// contend.
type Room struct {
	ID         string
	Kind       RoomKind
	ResourceID string
	ProjectID  string
	SceneID    string
	ImageID    string

	mu           sync.RWMutex
	participants map[string]*Participant
	createdAt    time.Time
	lastActivity time.Time
	closed       bool
}

func newRoom(kind RoomKind, resourceID string, ref ResourceRef, now time.Time) *Room {
	return &Room{
		ID:           RoomID(kind, resourceID),
		Kind:         kind,
		ResourceID:   resourceID,
		ProjectID:    ref.ProjectID,
		SceneID:      ref.SceneID,
		ImageID:      ref.ImageID,
		participants: make(map[string]*Participant),
		createdAt:    now,
		lastActivity: now,
	}
}

// roster returns every participant sorted by role (owner > admin > member)
// then by join time. The ordering is a display contract; keep it stable.
// Caller must hold the room lock.
func (r *Room) roster() []ParticipantInfo {
	out := make([]ParticipantInfo, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, participantInfo(p))
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := roleRank[out[i].Role], roleRank[out[j].Role]
		if ri != rj {
			return ri < rj
		}
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// conns snapshots the send targets so the actual writes happen outside the
// room lock. Caller must hold the room lock.
func (r *Room) conns(excludeUserID string) []Conn {
	out := make([]Conn, 0, len(r.participants))
	for uid, p := range r.participants {
		if excludeUserID != "" && uid == excludeUserID {
			continue
		}
		if p.conn != nil {
			out = append(out, p.conn)
		}
	}
	return out
}
