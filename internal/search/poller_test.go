package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shubhamdhabu/trace-rescue/internal/recognizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeSource scripts PollDetection responses. The last result repeats once
// the script is exhausted.
type fakeSource struct {
	mu       sync.Mutex
	script   []pollResult
	calls    int
	inFlight int
	overlap  bool
	delay    time.Duration
}

type pollResult struct {
	det *recognizer.Detection
	err error
}

func notFound() pollResult {
	return pollResult{det: &recognizer.Detection{Found: false}}
}

func found(name, location string) pollResult {
	return pollResult{det: &recognizer.Detection{
		Found: true, Name: name, Location: location, Message: "detected",
	}}
}

func (f *fakeSource) PollDetection(ctx context.Context) (*recognizer.Detection, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > 1 {
		f.overlap = true
	}
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	res := f.script[idx]
	f.calls++
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
	return res.det, res.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPoller_ReturnsMatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{script: []pollResult{notFound(), notFound(), found("Jane Doe", "Main St")}}
	p := NewPoller(source, 5*time.Millisecond, 0)

	det, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, det.Found)
	assert.Equal(t, "Jane Doe", det.Name)
	assert.Equal(t, 3, source.callCount())
}

func TestPoller_TransientErrorRetried(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{script: []pollResult{
		{err: errors.New("connection refused")},
		notFound(),
		found("Jane Doe", "Main St"),
	}}
	p := NewPoller(source, 5*time.Millisecond, 10)

	det, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, det.Found)
	assert.Equal(t, 3, source.callCount())
}

func TestPoller_ConsecutiveFailureBound(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{script: []pollResult{{err: errors.New("backend down")}}}
	p := NewPoller(source, time.Millisecond, 3)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 consecutive times")
	assert.Equal(t, 3, source.callCount())
}

func TestPoller_NoOverlappingPolls(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Responses take several tick intervals; the poller must serialize and
	// drop elapsed ticks instead of stacking polls.
	source := &fakeSource{
		script: []pollResult{notFound()},
		delay:  35 * time.Millisecond,
	}
	p := NewPoller(source, 10*time.Millisecond, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	assert.False(t, source.overlap, "a second poll was issued before the first returned")
	// Each round is ~45ms (35ms response + next 10ms tick); well under the
	// 20 polls a naive 10ms cadence would have issued.
	assert.LessOrEqual(t, source.callCount(), 6)
}

func TestPoller_CancelStopsDeterministically(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{script: []pollResult{notFound()}}
	p := NewPoller(source, 5*time.Millisecond, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		done <- err
	}()

	// Let a few polls happen, then cancel and wait for Run to return.
	time.Sleep(20 * time.Millisecond)
	cancel()
	err := <-done
	require.ErrorIs(t, err, context.Canceled)

	// No further poll may fire once Run has returned.
	observed := source.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, observed, source.callCount(), "poll fired after cancellation returned")
}
