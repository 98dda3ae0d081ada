// Package events keeps the session's turn event log: a fixed-capacity ring
// that evicts the oldest entry first.
package events

import "github.com/nathoo/dungeoncore/types"

// DefaultCapacity is the number of events a session keeps.
const DefaultCapacity = 50

// Log is a ring buffer of turn events.
type Log struct {
	buf  []types.TurnEvent
	head int // index of the oldest entry
	size int
}

// NewLog creates a log holding at most capacity events.
func NewLog(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{buf: make([]types.TurnEvent, capacity)}
}

// Append records ev, evicting the oldest entry when full.
func (l *Log) Append(ev types.TurnEvent) {
	if l.size < len(l.buf) {
		l.buf[(l.head+l.size)%len(l.buf)] = ev
		l.size++
		return
	}
	l.buf[l.head] = ev
	l.head = (l.head + 1) % len(l.buf)
}

// Len returns the number of stored events.
func (l *Log) Len() int { return l.size }

// Cap returns the capacity.
func (l *Log) Cap() int { return len(l.buf) }

// Entries returns the stored events, oldest first.
func (l *Log) Entries() []types.TurnEvent {
	return l.Tail(l.size)
}

// Tail returns the n most recent events, oldest first.
func (l *Log) Tail(n int) []types.TurnEvent {
	if n > l.size {
		n = l.size
	}
	if n <= 0 {
		return []types.TurnEvent{}
	}
	out := make([]types.TurnEvent, 0, n)
	start := l.size - n
	for i := start; i < l.size; i++ {
		out = append(out, l.buf[(l.head+i)%len(l.buf)])
	}
	return out
}
