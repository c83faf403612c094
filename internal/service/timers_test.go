package service

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerRegistryFires(t *testing.T) {
	r := NewTimerRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.ArmWaiting("g1", 20*time.Millisecond, func() { fired.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if n := fired.Load(); n != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
}

func TestTimerRegistryRearmReplaces(t *testing.T) {
	r := NewTimerRegistry()
	defer r.Stop()

	var first, second atomic.Int32
	r.ArmTurn("g1", 30*time.Millisecond, func() { first.Add(1) })
	r.ArmTurn("g1", 30*time.Millisecond, func() { second.Add(1) })

	time.Sleep(120 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("replaced timer still fired")
	}
	if second.Load() != 1 {
		t.Fatalf("rearmed timer fired %d times", second.Load())
	}
}

func TestTimerRegistryDisarm(t *testing.T) {
	r := NewTimerRegistry()
	defer r.Stop()

	var fired atomic.Int32
	r.ArmWaiting("g1", 30*time.Millisecond, func() { fired.Add(1) })
	r.ArmTurn("g1", 30*time.Millisecond, func() { fired.Add(1) })
	r.DisarmAll("g1")

	time.Sleep(120 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("disarmed timers fired %d times", fired.Load())
	}
}

func TestTimerRegistryIndependentSlots(t *testing.T) {
	r := NewTimerRegistry()
	defer r.Stop()

	var turn atomic.Int32
	r.ArmWaiting("g1", 20*time.Millisecond, func() {})
	r.ArmTurn("g1", 20*time.Millisecond, func() { turn.Add(1) })
	r.DisarmWaiting("g1")

	time.Sleep(100 * time.Millisecond)
	if turn.Load() != 1 {
		t.Fatalf("turn timer affected by waiting disarm")
	}
}

func TestTimerRegistryStop(t *testing.T) {
	r := NewTimerRegistry()

	var fired atomic.Int32
	r.ArmWaiting("g1", 30*time.Millisecond, func() { fired.Add(1) })
	r.ArmTurn("g2", 30*time.Millisecond, func() { fired.Add(1) })
	r.Stop()

	time.Sleep(120 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("stopped registry fired %d times", fired.Load())
	}
}
