package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer written by the spinner goroutine.
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

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Relaxing 20 stipples")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.SetMessage("Relaxing 20 stipples... 50%")
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "50%") {
		t.Errorf("spinner output %q missing updated message", got)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after explicit Stop")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Relaxing")
	s.Start()
	cancel()
	s.Stop() // returns once the goroutine saw the cancellation

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "x")
	s.Stop() // before Start
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerMessage(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "a")
	s.SetMessage("b")
	if got := s.Message(); got != "b" {
		t.Errorf("Message() = %q, want %q", got, "b")
	}
}
