package orch

import (
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Chat relays text to the rest of the room. The sender stays joined.
func (o *Orchestrator) Chat(sid core.SessionID, req protocol.Chat) {
	p, ok := o.Registry.Get(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("chat before join")
		return
	}
	o.publish(p.RoomID, sid, protocol.ChatDelivered{Text: req.Text, SenderName: p.Name})
}
