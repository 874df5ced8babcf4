package host

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// EventLoop is a real Host. Run executes every frame, timer and posted
// callback on the calling goroutine.
type EventLoop struct {
	interval time.Duration
	queue    chan func()
	done     chan struct{}
	logger   *slog.Logger

	mu     sync.Mutex
	nextID FrameID
	frames map[FrameID]func()
	firing map[FrameID]func()

	frameCount atomic.Uint64
}

func NewEventLoop(fps int, logger *slog.Logger) *EventLoop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventLoop{
		interval: FrameInterval(fps),
		queue:    make(chan func(), 64),
		done:     make(chan struct{}),
		logger:   logger,
		frames:   make(map[FrameID]func()),
	}
}

func (l *EventLoop) Interval() time.Duration { return l.interval }

// Frames returns the number of frame callbacks executed.
func (l *EventLoop) Frames() uint64 { return l.frameCount.Load() }

func (l *EventLoop) RequestFrame(fn func()) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.frames[l.nextID] = fn
	return l.nextID
}

func (l *EventLoop) CancelFrame(id FrameID) {
	l.mu.Lock()
	delete(l.frames, id)
	delete(l.firing, id)
	l.mu.Unlock()
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.t.Stop()
	return true
}

// AfterFunc schedules fn on the loop after d. A timer stopped after it
// expired but before its callback ran still never runs fn.
func (l *EventLoop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return lt
}

// Post enqueues fn to run on the loop goroutine. It reports false once
// the loop has exited.
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run dispatches callbacks until ctx is cancelled.
func (l *EventLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer close(l.done)

	l.logger.Debug("event loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped", "frames", l.Frames())
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		case <-ticker.C:
			l.fireFrames()
		}
	}
}

func (l *EventLoop) fireFrames() {
	l.mu.Lock()
	if len(l.frames) == 0 {
		l.mu.Unlock()
		return
	}
	l.firing = l.frames
	l.frames = make(map[FrameID]func())
	ids := make([]FrameID, 0, len(l.firing))
	for id := range l.firing {
		ids = append(ids, id)
	}
	l.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		l.mu.Lock()
		fn, ok := l.firing[id]
		l.mu.Unlock()
		if !ok {
			continue
		}
		l.frameCount.Add(1)
		fn()
	}
	l.mu.Lock()
	l.firing = nil
	l.mu.Unlock()
}
