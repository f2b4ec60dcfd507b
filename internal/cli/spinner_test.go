package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is written by the spinner goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf lockedBuffer
	msg := "Placing 4 fixtures (beam)..."
	s := startSpinnerOn(context.Background(), &buf, msg)
	time.Sleep(3 * spinnerInterval)
	s.stop()

	got := buf.String()
	if !strings.Contains(got, msg) {
		t.Errorf("spinner output %q lacks its message", got)
	}
	if !strings.HasSuffix(got, "\r"+strings.Repeat(" ", len(msg)+4)+"\r") {
		t.Errorf("spinner did not clear its line: %q", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinnerOn(ctx, &lockedBuffer{}, "waiting")
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after its context ended")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	s := startSpinnerOn(context.Background(), &lockedBuffer{}, "x")
	s.stop()
	s.stop()
}

func TestSpinnerSilentOnPlainFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := startSpinnerOn(context.Background(), f, "hidden")
	time.Sleep(2 * spinnerInterval)
	s.stop()

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("spinner wrote %q to a non-terminal", data)
	}
}

func TestSpinnerSucceedAndFail(t *testing.T) {
	buf := captureOutput(t)

	startSpinnerOn(context.Background(), &lockedBuffer{}, "a").succeed("placed 3 fixtures")
	startSpinnerOn(context.Background(), &lockedBuffer{}, "b").fail("no fixture fits")

	for _, want := range []string{"placed 3 fixtures", "no fixture fits"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q lacks %q", buf.String(), want)
		}
	}
}
