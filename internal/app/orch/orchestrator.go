package orch

import (
	"context"

	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/dkeye/Board/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Orchestrator drives every connection through DISCONNECTED -> JOINED ->
// DISCONNECTED. Events from one connection must be dispatched sequentially;
// different connections may dispatch concurrently.
type Orchestrator struct {
	Registry    *app.Registry
	Board       *app.Whiteboard
	Broadcaster *app.Broadcaster
	Policy      app.Policy

	// EnforcePresenter drops draw updates from participants without the presenter flag.
	EnforcePresenter bool
}

// Attach binds a freshly opened connection. It has not joined any room yet.
func (o *Orchestrator) Attach(sid core.SessionID, sig core.SignalConnection, cancel context.CancelFunc) {
	o.Registry.BindSignal(sid, sig, cancel)
}

func (o *Orchestrator) Dispatch(sid core.SessionID, msg protocol.Inbound) {
	switch m := msg.(type) {
	case protocol.Join:
		o.Join(sid, m)
	case protocol.DrawUpdate:
		o.Draw(sid, m)
	case protocol.Chat:
		o.Chat(sid, m)
	case protocol.Leave:
		o.Leave(sid)
	case protocol.Ping:
		o.Broadcaster.Reply(sid, protocol.Pong{})
	default:
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msgf("unhandled message %T", msg)
	}
}

func (o *Orchestrator) publish(room domain.RoomID, from core.SessionID, msg protocol.Outbound) {
	res := o.Broadcaster.BroadcastToRoom(room, from, msg)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("sid", string(slow)).Str("room", string(room)).Msg("kicking slow member")
			o.Registry.Cancel(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}
