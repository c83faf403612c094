package service

import (
	"sync"
	"time"
)

// gameTimers holds the two per-game timer handles. Typed fields rather than
// a string-keyed map, so arming one kind can never clobber the other.
type gameTimers struct {
	waiting *time.Timer
	turn    *time.Timer
}

// TimerRegistry schedules per-game deferred callbacks: waiting-room expiry
// and per-turn expiry. Arming a timer always disarms the prior timer of the
// same kind for that game; no stacking.
type TimerRegistry struct {
	mu     sync.Mutex
	timers map[string]*gameTimers
}

func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{timers: make(map[string]*gameTimers)}
}

func (r *TimerRegistry) entry(gameID string) *gameTimers {
	t, ok := r.timers[gameID]
	if !ok {
		t = &gameTimers{}
		r.timers[gameID] = t
	}
	return t
}

func (r *TimerRegistry) ArmWaiting(gameID string, d time.Duration, fire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.entry(gameID)
	if t.waiting != nil {
		t.waiting.Stop()
	}
	t.waiting = time.AfterFunc(d, fire)
}

func (r *TimerRegistry) ArmTurn(gameID string, d time.Duration, fire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.entry(gameID)
	if t.turn != nil {
		t.turn.Stop()
	}
	t.turn = time.AfterFunc(d, fire)
}

func (r *TimerRegistry) DisarmWaiting(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[gameID]; ok && t.waiting != nil {
		t.waiting.Stop()
		t.waiting = nil
	}
}

func (r *TimerRegistry) DisarmTurn(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[gameID]; ok && t.turn != nil {
		t.turn.Stop()
		t.turn = nil
	}
}

// DisarmAll cancels both timers and drops the game's entry.
func (r *TimerRegistry) DisarmAll(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.timers[gameID]; ok {
		if t.waiting != nil {
			t.waiting.Stop()
		}
		if t.turn != nil {
			t.turn.Stop()
		}
		delete(r.timers, gameID)
	}
}

// Stop cancels every pending timer.
func (r *TimerRegistry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.timers {
		if t.waiting != nil {
			t.waiting.Stop()
		}
		if t.turn != nil {
			t.turn.Stop()
		}
		delete(r.timers, id)
	}
}
