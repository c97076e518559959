// Package domain contains entity without logic, just meta-data
package domain

type UserID string

// Participant is one joined client as the rest of the room sees it.
// The connection identity is deliberately not part of it; the registry keys
// participants by session id.
type Participant struct {
	Name      string `json:"name"`
	UserID    UserID `json:"userId"`
	RoomID    RoomID `json:"roomId"`
	Host      bool   `json:"host"`
	Presenter bool   `json:"presenter"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(name string, userID UserID, roomID RoomID, host, presenter bool) Participant {
	return Participant{
		Name:      name,
		UserID:    userID,
		RoomID:    roomID,
		Host:      host,
		Presenter: presenter,
	}
}

// CanDraw reports whether the participant's canvas is the room's broadcast source.
func (p Participant) CanDraw() bool { return p.Presenter }
