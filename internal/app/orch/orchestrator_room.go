package orch

import (
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Join registers the participant and replays the room's board to the joiner.
// Existing members get the board again only when the room already has a drawing.
func (o *Orchestrator) Join(sid core.SessionID, req protocol.Join) {
	p := domain.NewParticipant(
		req.Name,
		domain.UserID(req.UserID),
		domain.RoomID(req.RoomID),
		req.Host,
		req.Presenter,
	)
	members, err := o.Registry.Add(sid, p)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", req.RoomID).Msg("join rejected")
		o.Broadcaster.Reply(sid, protocol.Rejected(err.Error()))
		return
	}
	log.Info().
		Str("module", "orch").
		Str("sid", string(sid)).
		Str("room", string(p.RoomID)).
		Bool("host", p.Host).
		Bool("presenter", p.Presenter).
		Int("members", len(members)).
		Msg("joined")

	o.Broadcaster.EmitToOne(sid, protocol.Accepted(core.Participants(members)))
	snap, hasSnap := o.Board.Get(p.RoomID)
	o.Broadcaster.EmitToOne(sid, protocol.WhiteboardUpdate{ImageSnapshot: snap})

	o.publish(p.RoomID, sid, protocol.MemberJoined{Name: p.Name})
	o.publish(p.RoomID, sid, protocol.NewMembersUpdated(core.Participants(o.Registry.ListByRoom(p.RoomID))))
	if hasSnap {
		o.publish(p.RoomID, sid, protocol.WhiteboardUpdate{ImageSnapshot: snap})
	}
}

// Leave is an explicit departure. The connection is closed afterwards because a
// session never rejoins.
func (o *Orchestrator) Leave(sid core.SessionID) {
	if !o.depart(sid) {
		return
	}
	o.Broadcaster.Reply(sid, protocol.Left{})
	if sig, ok := o.Registry.Signal(sid); ok {
		sig.Close()
	}
}

// OnDisconnect runs once per connection when its transport goes away.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.depart(sid)
	o.Registry.Unbind(sid)
}

func (o *Orchestrator) depart(sid core.SessionID) bool {
	p, ok := o.Registry.Remove(sid)
	if !ok {
		return false
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("left")

	o.publish(p.RoomID, sid, protocol.MemberLeft{Name: p.Name})
	evicted := o.Board.EvictIf(p.RoomID, func() bool {
		return len(o.Registry.ListByRoom(p.RoomID)) == 0
	})
	if evicted {
		return true
	}
	if rest := o.Registry.ListByRoom(p.RoomID); len(rest) > 0 {
		o.publish(p.RoomID, sid, protocol.NewMembersUpdated(core.Participants(rest)))
	}
	return true
}
