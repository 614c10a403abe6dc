// Package view owns the per-attempt UI state: field values, the attempt
// state machine, the scored-result view, and the transient notice banners.
// One Attempt instance stands in for what the browser code kept in
// module-level globals and ad-hoc DOM lookups.
package view

import (
	"sync"
	"time"
)

// NoticeKind selects which banner a notice lands on.
type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// noticeDelay is how long a banner stays up before hiding itself.
const noticeDelay = 5 * time.Second

// Board is the single transient-message channel shared by validation,
// submission, and rendering. One error and one info banner exist at a time;
// a new notice of the same kind replaces the text immediately and restarts
// that kind's hide timer. Timers are independent: a superseded notice's
// timer firing never hides its successor.
type Board struct {
	delay time.Duration
	after func(d time.Duration, fn func())

	mu      sync.Mutex
	current map[NoticeKind]string
	gen     map[NoticeKind]uint64
}

func NewBoard() *Board {
	return &Board{
		delay:   noticeDelay,
		after:   func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		current: make(map[NoticeKind]string),
		gen:     make(map[NoticeKind]uint64),
	}
}

// NewBoardWithTimer is test-only: fn collects hide callbacks so tests can
// fire them deterministically.
func NewBoardWithTimer(after func(d time.Duration, fn func())) *Board {
	b := NewBoard()
	b.after = after
	return b
}

// Notify shows message on the kind's banner and schedules its hide.
func (b *Board) Notify(kind NoticeKind, message string) {
	b.mu.Lock()
	b.gen[kind]++
	gen := b.gen[kind]
	b.current[kind] = message
	b.mu.Unlock()

	b.after(b.delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen[kind] == gen {
			delete(b.current, kind)
		}
	})
}

// Current returns the visible message for a kind, if any.
func (b *Board) Current(kind NoticeKind) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	message, ok := b.current[kind]
	return message, ok
}

// Clear hides a kind's banner immediately.
func (b *Board) Clear(kind NoticeKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen[kind]++
	delete(b.current, kind)
}
