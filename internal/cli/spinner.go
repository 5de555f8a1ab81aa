package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond

	// spinnerShowElapsed is how long a stage runs before the line grows
	// an elapsed-time suffix.
	spinnerShowElapsed = time.Second
)

// Spinner animates a status line while a stage runs. It stops on Stop or
// when its context is cancelled.
type Spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int
}

// newSpinner creates a spinner writing to the status stream.
func newSpinner(ctx context.Context, message string) *Spinner {
	return newSpinnerTo(ctx, statusOut, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	start := time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case now := <-ticker.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)], now.Sub(start))
			}
		}
	}()
}

func (s *Spinner) draw(frame string, elapsed time.Duration) {
	text := s.message
	if elapsed >= spinnerShowElapsed {
		text += fmt.Sprintf(" %.1fs", elapsed.Seconds())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(text)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", max(s.width, len(s.message)+2)))
}

// Stop ends the animation and clears the line. It may be called more than
// once but only after Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.cancel()
		s.clearLine()
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
	}
	return s.ctx.Err() != nil
}
