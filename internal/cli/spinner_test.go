package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndUpdates(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Rendering...")
	s.tick = 5 * time.Millisecond
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Update("Writing card.png...")
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Rendering...") || !strings.Contains(got, "Writing card.png...") {
		t.Errorf("output = %q, want both messages", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 10*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			s := newSpinner(ctx, &syncBuffer{}, "Rendering...")
			s.Start()
			time.Sleep(50 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("Cancelled() = false after parent context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.Stop()
		s.Stop()
	})
	t.Run("without start", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Stop()
	})
	t.Run("fail", func(t *testing.T) {
		s := newSpinner(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.Fail("Render failed")
	})
}
