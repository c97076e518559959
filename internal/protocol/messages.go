// Package protocol defines the closed set of events exchanged with browser clients.
//
// Every frame is a JSON envelope {"type": "...", "payload": {...}}. Inbound frames
// are decoded once into one of the Inbound variants; handlers switch on the Go type,
// never on the event name.
package protocol

import "github.com/dkeye/Board/internal/domain"

type EventName string

// client -> server
const (
	EventJoin       EventName = "join"
	EventDrawUpdate EventName = "draw-update"
	EventChat       EventName = "chat"
	EventLeave      EventName = "leave"
	EventPing       EventName = "ping"
)

// server -> client
const (
	EventJoinAck          EventName = "join-ack"
	EventMembersUpdated   EventName = "members-updated"
	EventMemberJoined     EventName = "member-joined"
	EventMemberLeft       EventName = "member-left"
	EventWhiteboardUpdate EventName = "whiteboard-update"
	EventChatDelivered    EventName = "chat-delivered"
	EventLeft             EventName = "left"
	EventPong             EventName = "pong"
	EventError            EventName = "error"
)

// Inbound is implemented only by the types in this file.
type Inbound interface {
	inbound()
}

type Join struct {
	Name      string `json:"name" validate:"required,max=64"`
	UserID    string `json:"userId" validate:"max=64"`
	RoomID    string `json:"roomId" validate:"required,max=128"`
	Host      bool   `json:"host"`
	Presenter bool   `json:"presenter"`
}

type DrawUpdate struct {
	ImageSnapshot string `json:"imageSnapshot" validate:"required"`
}

// Chat text is relayed exactly as sent; whitespace-only text is rejected.
type Chat struct {
	Text string `json:"text" validate:"notblank,max=4000"`
}

type Leave struct{}

type Ping struct{}

func (Join) inbound()       {}
func (DrawUpdate) inbound() {}
func (Chat) inbound()       {}
func (Leave) inbound()      {}
func (Ping) inbound()       {}

// Outbound is implemented only by the types in this file.
type Outbound interface {
	Event() EventName
	outbound()
}

type JoinAck struct {
	Success bool                 `json:"success"`
	Members []domain.Participant `json:"members"`
	Error   string               `json:"error,omitempty"`
}

// MembersUpdated is sent as a bare array of member records.
type MembersUpdated []domain.Participant

type MemberJoined struct {
	Name string `json:"name"`
}

type MemberLeft struct {
	Name string `json:"name"`
}

// WhiteboardUpdate carries no imageSnapshot field when the room has no drawing yet.
type WhiteboardUpdate struct {
	ImageSnapshot domain.Snapshot `json:"imageSnapshot,omitempty"`
}

type ChatDelivered struct {
	Text       string `json:"text"`
	SenderName string `json:"senderName"`
}

type Left struct{}

type Pong struct{}

type Error struct {
	Reason string `json:"reason"`
}

func (JoinAck) Event() EventName          { return EventJoinAck }
func (MembersUpdated) Event() EventName   { return EventMembersUpdated }
func (MemberJoined) Event() EventName     { return EventMemberJoined }
func (MemberLeft) Event() EventName       { return EventMemberLeft }
func (WhiteboardUpdate) Event() EventName { return EventWhiteboardUpdate }
func (ChatDelivered) Event() EventName    { return EventChatDelivered }
func (Left) Event() EventName             { return EventLeft }
func (Pong) Event() EventName             { return EventPong }
func (Error) Event() EventName            { return EventError }

func (JoinAck) outbound()          {}
func (MembersUpdated) outbound()   {}
func (MemberJoined) outbound()     {}
func (MemberLeft) outbound()       {}
func (WhiteboardUpdate) outbound() {}
func (ChatDelivered) outbound()    {}
func (Left) outbound()             {}
func (Pong) outbound()             {}
func (Error) outbound()            {}

func Accepted(members []domain.Participant) JoinAck {
	if members == nil {
		members = []domain.Participant{}
	}
	return JoinAck{Success: true, Members: members}
}

func Rejected(reason string) JoinAck {
	return JoinAck{Success: false, Members: []domain.Participant{}, Error: reason}
}

func NewMembersUpdated(members []domain.Participant) MembersUpdated {
	if members == nil {
		return MembersUpdated{}
	}
	return MembersUpdated(members)
}
