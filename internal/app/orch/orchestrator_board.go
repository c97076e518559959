package orch

import (
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Draw(sid core.SessionID, req protocol.DrawUpdate) {
	p, ok := o.Registry.Get(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("draw before join")
		return
	}
	if o.EnforcePresenter && !p.CanDraw() {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("draw from non-presenter dropped")
		return
	}
	snap := domain.Snapshot(req.ImageSnapshot)
	o.Board.Set(p.RoomID, snap)
	o.publish(p.RoomID, sid, protocol.WhiteboardUpdate{ImageSnapshot: snap})
}
