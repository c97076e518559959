package domain

type RoomID string

// Snapshot is an encoded whiteboard image (typically a data URL). The server never
// looks inside it.
type Snapshot string

// RoomInfo is a read-only view of an active room.
type RoomInfo struct {
	ID          RoomID `json:"id"`
	MemberCount int    `json:"memberCount"`
	HasSnapshot bool   `json:"hasSnapshot"`
}
