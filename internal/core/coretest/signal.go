// Package coretest provides an in-memory SignalConnection for tests.
package coretest

import (
	"errors"
	"sync"

	"github.com/goccy/go-json"

	"github.com/dkeye/Board/internal/core"
)

var (
	ErrFull   = errors.New("queue full")
	ErrClosed = errors.New("connection closed")
)

// Event is a decoded outbound frame.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Signal records every frame it accepts.
type Signal struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func NewSignal() *Signal { return &Signal{} }

func (s *Signal) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.full {
		return ErrFull
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *Signal) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Signal) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SetFull makes TrySend fail as if the queue were saturated.
func (s *Signal) SetFull(full bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.full = full
}

func (s *Signal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = nil
}

func (s *Signal) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, 0, len(s.frames))
	for _, f := range s.frames {
		var ev Event
		if err := json.Unmarshal(f, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Types lists event names in delivery order.
func (s *Signal) Types() []string {
	events := s.Events()
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func (s *Signal) Count(eventType string) int {
	n := 0
	for _, ev := range s.Events() {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

// Last decodes the payload of the most recent eventType frame into dst.
func (s *Signal) Last(eventType string, dst any) bool {
	events := s.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type != eventType {
			continue
		}
		return json.Unmarshal(events[i].Payload, dst) == nil
	}
	return false
}
