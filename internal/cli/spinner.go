package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/voxgen/pkg/observability"
)

// Spinner is a one-line progress indicator. Its message can be replaced
// while it runs, and it stops drawing when its context is cancelled.
type Spinner struct {
	w      io.Writer
	parent context.Context
	frames []string

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far, in cells
	started bool
}

// newSpinner creates a spinner drawing to w until Stop is called or ctx is
// cancelled.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		parent:  ctx,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.parent.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	w := lipgloss.Width(line)
	pad := ""
	if w < s.width {
		pad = strings.Repeat(" ", s.width-w)
	}
	s.width = max(s.width, w)
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

// Stop ends the animation and clears the line. It is safe to call more
// than once, and without Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context was cancelled, as
// opposed to the spinner being stopped.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// =============================================================================
// Pipeline Stages
// =============================================================================

// stageSpinner shows the running pipeline stage on a spinner.
type stageSpinner struct {
	observability.NoopPipelineHooks
	spinner *Spinner
}

func (h stageSpinner) OnReadStart(_ context.Context, source string) {
	if source == "-" {
		source = "stdin"
	}
	h.spinner.SetMessage("Reading " + source + "...")
}

func (h stageSpinner) OnPartitionStart(_ context.Context, voxels, maxEdge int) {
	h.spinner.SetMessage(fmt.Sprintf("Partitioning %d voxels into models of up to %d³...", voxels, maxEdge))
}

func (h stageSpinner) OnEncodeStart(_ context.Context, models int) {
	h.spinner.SetMessage(fmt.Sprintf("Encoding %d models...", models))
}

// observeStages routes pipeline stage events to s until the returned
// function is called, which restores the previous hooks.
func observeStages(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(stageSpinner{spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}
