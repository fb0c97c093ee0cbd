package collab

import "context"

// Conn is one authenticated transport connection. Implemented by the
// websocket client; the manager never cares about the wire underneath.
// TrySend must not block: delivery is fire-and-forget per connection and
// the transport layer owns slow-consumer handling.
type Conn interface {
	ID() string
	UserID() string
	DisplayName() string
	AvatarURL() string
	TrySend(data []byte) error
}

// ResourceRef locates a room's resource inside its owning project.
type ResourceRef struct {
	ProjectID string
	SceneID   string
	ImageID   string
}

// Store is the read-only view of the persisted participation data. Exactly
// one resolution happens per join, before the room lock, so a slow lookup
// never stalls broadcasts to already-joined participants.
type Store interface {
	// ProjectOf resolves which project a resource belongs to. For
	// kind=project the resource is the project itself.
	ProjectOf(ctx context.Context, kind RoomKind, resourceID string) (ResourceRef, error)

	// Participation returns the persisted role ("admin" or "member") for
	// (projectID, userID), or an error when no record exists.
	Participation(ctx context.Context, projectID, userID string) (string, error)

	// ProjectCreator returns the creator's user id. Creator status is
	// authoritative and cannot be demoted via the participation table.
	ProjectCreator(ctx context.Context, projectID string) (string, error)
}
