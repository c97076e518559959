package app

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyJoined = errors.New("already joined")
	ErrRoomFull      = errors.New("room full")
	ErrSessionClosed = errors.New("session closed")
)

type sessionEntry struct {
	Signal core.SignalConnection
	Cancel context.CancelFunc
	// left is set once the session's participant is removed; it never joins again.
	left bool
}

// Registry is the membership table. Bound sessions are live connections, joined
// ones additionally carry a participant and sit in their room's ordered index.
// A single lock guards all three maps so every operation is atomic with respect
// to the others.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[core.SessionID]*sessionEntry
	members    map[core.SessionID]domain.Participant
	rooms      map[domain.RoomID][]core.SessionID
	maxMembers int
}

// NewRegistry returns an empty registry. maxMembers <= 0 means rooms are unbounded.
func NewRegistry(maxMembers int) *Registry {
	return &Registry{
		sessions:   make(map[core.SessionID]*sessionEntry),
		members:    make(map[core.SessionID]domain.Participant),
		rooms:      make(map[domain.RoomID][]core.SessionID),
		maxMembers: maxMembers,
	}
}

func (r *Registry) BindSignal(sid core.SessionID, sig core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound signal")
}

func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Signal, true
	}
	return nil, false
}

// Add registers p under sid and returns its room's members in join order,
// including p itself.
func (r *Registry) Add(sid core.SessionID, p domain.Participant) ([]core.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[sid]; ok {
		return nil, ErrAlreadyJoined
	}
	if e, ok := r.sessions[sid]; ok && e.left {
		return nil, ErrSessionClosed
	}
	if r.maxMembers > 0 && len(r.rooms[p.RoomID]) >= r.maxMembers {
		return nil, ErrRoomFull
	}
	r.members[sid] = p
	r.rooms[p.RoomID] = append(r.rooms[p.RoomID], sid)
	log.Info().
		Str("module", "app.registry").
		Str("sid", string(sid)).
		Str("room", string(p.RoomID)).
		Str("name", p.Name).
		Msg("member added")
	return r.roomLocked(p.RoomID), nil
}

// Remove deletes the participant bound to sid. The second call for the same sid
// finds nothing and reports false.
func (r *Registry) Remove(sid core.SessionID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.members[sid]
	if !ok {
		return domain.Participant{}, false
	}
	delete(r.members, sid)
	if e, ok := r.sessions[sid]; ok {
		e.left = true
	}

	ids := r.rooms[p.RoomID]
	if i := slices.Index(ids, sid); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	}
	if len(ids) == 0 {
		delete(r.rooms, p.RoomID)
	} else {
		r.rooms[p.RoomID] = ids
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("member removed")
	return p, true
}

func (r *Registry) Get(sid core.SessionID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.members[sid]
	return p, ok
}

// ListByRoom returns the room's members in join order.
func (r *Registry) ListByRoom(room domain.RoomID) []core.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomLocked(room)
}

func (r *Registry) roomLocked(room domain.RoomID) []core.Member {
	ids := r.rooms[room]
	out := make([]core.Member, 0, len(ids))
	for _, sid := range ids {
		m := core.Member{SID: sid, Participant: r.members[sid]}
		if e, ok := r.sessions[sid]; ok {
			m.Signal = e.Signal
		}
		out = append(out, m)
	}
	return out
}

// Rooms lists active rooms with their member counts.
func (r *Registry) Rooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RoomInfo, 0, len(r.rooms))
	for id, ids := range r.rooms {
		out = append(out, domain.RoomInfo{ID: id, MemberCount: len(ids)})
	}
	slices.SortFunc(out, func(a, b domain.RoomInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Cancel tears down the session's transport. Disconnect handling follows from
// the read loop exiting.
func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// CancelAll is used at shutdown.
func (r *Registry) CancelAll() int {
	r.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	r.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
	log.Info().Str("module", "app.registry").Int("sessions", len(cancels)).Msg("canceled all sessions")
	return len(cancels)
}
