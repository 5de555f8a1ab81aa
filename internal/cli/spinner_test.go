package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer for the spinner goroutine.
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

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Placing leylines...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Placing leylines...") {
		t.Errorf("spinner never drew its message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should end by clearing the line: %q", got)
	}
	if s.Cancelled() {
		t.Error("Stop is not a cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "Loading dataset...")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "Fetching...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Rendering...")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("Rendered")
	s.StopWithError("failed")
}

func TestSpinnerShowsElapsedTime(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering...")
	s.draw(spinnerFrames[0], 1500*time.Millisecond)
	s.draw(spinnerFrames[1], 10*time.Millisecond)

	got := out.String()
	if !strings.Contains(got, "Rendering... 1.5s") {
		t.Errorf("long stages should show elapsed time: %q", got)
	}
	if strings.Count(got, "Rendering... ") != 1 {
		t.Errorf("short stages should not: %q", got)
	}
}
