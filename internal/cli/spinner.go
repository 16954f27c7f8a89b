package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	// spinnerDelay keeps fast runs (cache hits, tiny graphs) silent.
	spinnerDelay = 150 * time.Millisecond
	spinnerTick  = 80 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on w while a layout runs. The line
// is cleared when the spinner stops or ctx ends.
type Spinner struct {
	message string
	w       io.Writer

	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once

	mu    sync.Mutex
	width int // widest line drawn
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{message: message, w: w, ctx: ctx, cancel: cancel}
}

// Start draws frames until Stop is called. Lines gain the elapsed seconds
// after the first second.
func (s *Spinner) Start() {
	s.exited = make(chan struct{})
	start := time.Now()
	go func() {
		defer close(s.exited)
		defer s.clear()
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for frame := 0; ; {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
			elapsed := time.Since(start)
			if elapsed < spinnerDelay {
				continue
			}
			line := s.message
			if elapsed >= time.Second {
				line = fmt.Sprintf("%s %ds", line, int(elapsed/time.Second))
			}
			s.draw(spinnerFrames[frame%len(spinnerFrames)], line)
			frame++
		}
	}()
}

func (s *Spinner) draw(frame, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(line)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
		s.width = 0
	}
}

// Stop clears the line and waits for the animation to exit. Calling it
// more than once, or without Start, is fine.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.exited != nil {
			<-s.exited
		}
	})
}

func (s *Spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	printSuccess(format, args...)
}

func (s *Spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}
