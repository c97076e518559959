package app

import (
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Broadcaster fans encoded events out to room members. Delivery is best effort:
// a recipient that cannot take the frame is reported in the result and skipped.
type Broadcaster struct {
	reg *Registry
}

func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{reg: reg}
}

// BroadcastToRoom sends msg to every member of room except exclude.
// Pass core.NoSession to include everyone.
func (b *Broadcaster) BroadcastToRoom(room domain.RoomID, exclude core.SessionID, msg protocol.Outbound) core.PublishResult {
	res := core.PublishResult{}
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("room", string(room)).Msg("encode")
		return res
	}

	for _, m := range b.reg.ListByRoom(room) {
		if m.SID == exclude || m.Signal == nil {
			continue
		}
		if err := m.Signal.TrySend(frame); err != nil {
			log.Debug().Err(err).Str("module", "app.broadcast").Str("sid", string(m.SID)).Msg("recipient dropped")
			res.Dropped = append(res.Dropped, m.SID)
			continue
		}
		res.SendTo++
	}
	log.Debug().
		Str("module", "app.broadcast").
		Str("room", string(room)).
		Str("event", string(msg.Event())).
		Str("from", string(exclude)).
		Int("sent_to", res.SendTo).
		Int("dropped", len(res.Dropped)).
		Msg("broadcast result")
	return res
}

// EmitToOne sends msg to a single joined participant. It reports false when sid
// is not joined or its connection refused the frame.
func (b *Broadcaster) EmitToOne(sid core.SessionID, msg protocol.Outbound) bool {
	if _, ok := b.reg.Get(sid); !ok {
		return false
	}
	return b.Reply(sid, msg)
}

// Reply sends msg to a bound connection whether or not it has joined a room.
func (b *Broadcaster) Reply(sid core.SessionID, msg protocol.Outbound) bool {
	sig, ok := b.reg.Signal(sid)
	if !ok || sig == nil {
		return false
	}
	frame, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Str("sid", string(sid)).Msg("encode")
		return false
	}
	if err := sig.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.broadcast").Str("sid", string(sid)).Str("event", string(msg.Event())).Msg("reply dropped")
		return false
	}
	return true
}
