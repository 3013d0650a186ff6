package vision

import (
	"context"
	"sync"
)

// LatestFrame is a single-slot, latest-wins handoff between the detector
// pipeline and the control loop. A new frame overwrites any frame that the
// consumer has not collected yet, so the control loop always acts on the
// most recent observation and never works through a backlog.
type LatestFrame struct {
	mu    sync.Mutex
	frame Frame
	ready chan struct{} // signalled (capacity 1) when a fresh frame lands
}

// NewLatestFrame creates an empty handoff slot.
func NewLatestFrame() *LatestFrame {
	return &LatestFrame{ready: make(chan struct{}, 1)}
}

// Put stores the frame, replacing any uncollected one.
func (l *LatestFrame) Put(frame Frame) {
	l.mu.Lock()
	l.frame = frame
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default: // consumer already has a wakeup pending
	}
}

// Next blocks until a frame newer than the last collected one is available,
// or the context is cancelled.
func (l *LatestFrame) Next(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case <-l.ready:
	}

	l.mu.Lock()
	frame := l.frame
	l.mu.Unlock()
	return frame, nil
}

// Collect drains frames from the channel into the slot until the channel
// is closed. It must keep draining through shutdown: a producer may still
// be blocked on a send, and only the producer closing the channel means no
// more frames are coming. Run it in its own goroutine.
func (l *LatestFrame) Collect(frames <-chan Frame) {
	for frame := range frames {
		l.Put(frame)
	}
}
