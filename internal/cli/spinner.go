package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 100 * time.Millisecond

// spinner draws a label and the elapsed time on stderr while the engine
// runs. Nothing is drawn when stderr is not a terminal.
type spinner struct {
	label   string
	parent  context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws label until halt is called or ctx ends.
func startSpinner(ctx context.Context, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		label:   label,
		parent:  ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run(sctx, isTerminal(os.Stderr))
	return s
}

func (s *spinner) run(ctx context.Context, draw bool) {
	defer close(s.stopped)
	if !draw {
		<-ctx.Done()
		return
	}

	start := time.Now()
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	width := 0
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			fmt.Fprintf(status, "\r%s\r", strings.Repeat(" ", width))
			return
		case <-ticker.C:
			elapsed := time.Since(start).Truncate(spinnerTick)
			line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " +
				StyleDim.Render(fmt.Sprintf("%s %s", s.label, elapsed))
			width = max(width, lipgloss.Width(line))
			fmt.Fprint(status, "\r"+line)
		}
	}
}

// halt stops drawing and clears the line. Later calls do nothing.
func (s *spinner) halt() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// interrupted reports whether the command's context ended.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
