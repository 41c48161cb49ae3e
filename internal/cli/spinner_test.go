package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerHalt(t *testing.T) {
	s := startSpinner(context.Background(), "Counting")
	time.Sleep(20 * time.Millisecond)
	s.halt()
	s.halt()

	if s.interrupted() {
		t.Error("interrupted() = true after halt, want false")
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		stop bool
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }, true},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 10*time.Millisecond)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := startSpinner(ctx, "Counting classes")
			if tt.stop {
				cancel()
			}
			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner did not stop when its context ended")
			}

			if !s.interrupted() {
				t.Error("interrupted() = false, want true")
			}
			s.halt()
		})
	}
}
