package fetcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// clearWidth is how many columns a failed attempt blanks out.
const clearWidth = 70

// ProgressOptions configures the simulated per-attempt progress bar. The
// bar does not track bytes received: it climbs by Step every Interval up to
// Ceiling and jumps to 100 once the response has been decoded.
type ProgressOptions struct {
	Enabled  bool
	Interval time.Duration
	Step     int
	Ceiling  int
	Width    int
}

func (o ProgressOptions) withDefaults() ProgressOptions {
	if o.Interval <= 0 {
		o.Interval = 200 * time.Millisecond
	}
	if o.Step <= 0 {
		o.Step = 10
	}
	if o.Ceiling <= 0 || o.Ceiling > 100 {
		o.Ceiling = 90
	}
	if o.Width <= 0 {
		o.Width = 50
	}
	return o
}

// progressTask animates one attempt's bar. The counter is written only by
// the background goroutine until done is closed, and only by the owner
// after that.
type progressTask struct {
	out     io.Writer
	opts    ProgressOptions
	start   time.Time
	percent int

	cancel  context.CancelFunc
	done    chan struct{}
	stop    sync.Once
	running *atomic.Int64
}

// startProgress launches the animation for a single attempt. start is when
// the whole fetch began; the speed readout is measured from it. A disabled
// task never starts a goroutine and renders nothing.
func startProgress(ctx context.Context, out io.Writer, opts ProgressOptions, start time.Time, running *atomic.Int64) *progressTask {
	t := &progressTask{
		out:     out,
		opts:    opts.withDefaults(),
		start:   start,
		done:    make(chan struct{}),
		running: running,
	}
	if !opts.Enabled {
		close(t.done)
		return t
	}

	ctx, t.cancel = context.WithCancel(ctx)
	t.running.Add(1)
	go t.run(ctx)
	return t
}

func (t *progressTask) run(ctx context.Context) {
	defer close(t.done)
	defer t.running.Add(-1)

	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	for {
		t.render()
		if t.percent >= t.opts.Ceiling {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		t.percent = min(t.percent+t.opts.Step, t.opts.Ceiling)
	}
}

// Stop cancels the animation and waits for the goroutine to exit. Safe to
// call any number of times, including after the animation finished.
func (t *progressTask) Stop() {
	t.stop.Do(func() {
		if t.cancel != nil {
			t.cancel()
		}
	})
	<-t.done
}

// Complete stops the animation and shows the bar at 100%.
func (t *progressTask) Complete() {
	t.Stop()
	if !t.opts.Enabled {
		return
	}
	t.percent = 100
	t.render()
	fmt.Fprintln(t.out)
}

// Clear stops the animation and blanks the bar's line.
func (t *progressTask) Clear() {
	t.Stop()
	if !t.opts.Enabled {
		return
	}
	fmt.Fprint(t.out, "\r"+strings.Repeat(" ", clearWidth)+"\r")
}

func (t *progressTask) render() {
	filled := t.opts.Width * t.percent / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", t.opts.Width-filled)
	elapsed := time.Since(t.start).Seconds() + 0.1
	speed := float64(t.percent*10) / elapsed
	fmt.Fprintf(t.out, "\r[%s] %d%%  Speed: %.1f KB/s", bar, t.percent, speed)
}
