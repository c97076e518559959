package app

import (
	"sync"

	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

// Whiteboard keeps the latest snapshot of every room. Last writer wins; the
// holder does not care who writes.
type Whiteboard struct {
	mu    sync.RWMutex
	snaps map[domain.RoomID]domain.Snapshot
}

func NewWhiteboard() *Whiteboard {
	return &Whiteboard{snaps: make(map[domain.RoomID]domain.Snapshot)}
}

func (w *Whiteboard) Set(room domain.RoomID, snap domain.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snaps[room] = snap
	log.Debug().Str("module", "app.whiteboard").Str("room", string(room)).Int("bytes", len(snap)).Msg("snapshot stored")
}

func (w *Whiteboard) Get(room domain.RoomID) (domain.Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	snap, ok := w.snaps[room]
	return snap, ok
}

// Evict drops the room's snapshot.
func (w *Whiteboard) Evict(room domain.RoomID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evictLocked(room)
}

// EvictIf drops the room's snapshot when empty reports true. empty runs under
// the board lock, so a Set issued after a new member registered cannot be lost.
func (w *Whiteboard) EvictIf(room domain.RoomID, empty func() bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !empty() {
		return false
	}
	w.evictLocked(room)
	return true
}

func (w *Whiteboard) evictLocked(room domain.RoomID) {
	if _, ok := w.snaps[room]; !ok {
		return
	}
	delete(w.snaps, room)
	log.Info().Str("module", "app.whiteboard").Str("room", string(room)).Msg("snapshot evicted")
}
