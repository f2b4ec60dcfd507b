package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on a terminal until stopped or until its
// context ends. On writers that are not terminals it draws nothing.
type spinner struct {
	w      io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	msg    string
}

// startSpinner draws msg on stderr.
func startSpinner(ctx context.Context, msg string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, msg)
}

func startSpinnerOn(ctx context.Context, w io.Writer, msg string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, ctx: ctx, cancel: cancel, msg: msg}
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) {
		return s
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer s.wg.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.msg))
		}
	}
}

// stop ends the animation and clears the line. Calling it again is a no-op.
func (s *spinner) stop() {
	s.cancel()
	s.wg.Wait()
}

// succeed stops the spinner and prints msg as a success line.
func (s *spinner) succeed(msg string) {
	s.stop()
	printSuccess("%s", msg)
}

// fail stops the spinner and prints msg as an error line.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}

func (s *spinner) clear() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
}
