package todo_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"dtask/internal/todo"
)

func TestStartCountdown_NotifiesUntilStopped(t *testing.T) {
	ctrl := newLoaded(t, seeded())

	var ticks atomic.Int32
	got := make(chan map[string]string, 16)
	cd := ctrl.StartCountdown(context.Background(), 5*time.Millisecond, func(labels map[string]string) {
		ticks.Add(1)
		select {
		case got <- labels:
		default:
		}
	})

	select {
	case labels := <-got:
		if labels["b"] != todo.ExpiredLabel {
			t.Errorf("expected expired label for b, got %q", labels["b"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within 2s")
	}

	cd.Stop()
	cd.Stop()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != after {
		t.Error("countdown kept ticking after Stop")
	}
}

func TestStartCountdown_StopsOnClose(t *testing.T) {
	ctrl := todo.New(seeded(), todo.WithClock(frozenClock))
	cd := ctrl.StartCountdown(context.Background(), time.Millisecond, nil)

	if err := ctrl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-cd.Done():
	default:
		t.Error("expected countdown goroutine to have exited after Close")
	}
}

func TestStartCountdown_StopsOnContextCancel(t *testing.T) {
	ctrl := newLoaded(t, seeded())
	ctx, cancel := context.WithCancel(context.Background())
	cd := ctrl.StartCountdown(ctx, time.Millisecond, nil)

	cancel()
	select {
	case <-cd.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not stop after context cancel")
	}
}

func TestStartCountdown_ReplacesPrevious(t *testing.T) {
	ctrl := newLoaded(t, seeded())
	first := ctrl.StartCountdown(context.Background(), time.Millisecond, nil)
	second := ctrl.StartCountdown(context.Background(), time.Millisecond, nil)

	select {
	case <-first.Done():
	default:
		t.Error("expected first countdown stopped when second started")
	}
	second.Stop()
}
