package core

import "github.com/dkeye/Board/internal/domain"

// SessionID identifies one live connection. The transport assigns it and never
// reuses it while the connection is open.
type SessionID string

// NoSession excludes nobody when passed as the broadcast exclusion.
const NoSession SessionID = ""

// Member is a registry snapshot: a participant together with the transport
// endpoint it was bound to when the snapshot was taken.
type Member struct {
	SID         SessionID
	Participant domain.Participant
	Signal      SignalConnection
}

// Participants strips transport details for outbound member lists.
func Participants(members []Member) []domain.Participant {
	out := make([]domain.Participant, 0, len(members))
	for _, m := range members {
		out = append(out, m.Participant)
	}
	return out
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}
