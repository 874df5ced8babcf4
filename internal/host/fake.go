package host

import (
	"sort"
	"time"
)

// Fake is a deterministic Host. Time only moves inside Advance, which runs
// due timers and refresh ticks in order on the caller's goroutine.
type Fake struct {
	interval time.Duration
	now      time.Duration

	nextID FrameID
	frames map[FrameID]func()
	firing map[FrameID]func()

	seq    uint64
	timers []*fakeTimer

	frameCount uint64
}

type fakeTimer struct {
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewFake(fps int) *Fake {
	return &Fake{
		interval: FrameInterval(fps),
		frames:   make(map[FrameID]func()),
	}
}

// Now returns the virtual time elapsed since creation.
func (f *Fake) Now() time.Duration { return f.now }

func (f *Fake) Interval() time.Duration { return f.interval }

// Frames returns the number of frame callbacks executed.
func (f *Fake) Frames() uint64 { return f.frameCount }

// PendingFrames returns the number of outstanding frame requests.
func (f *Fake) PendingFrames() int { return len(f.frames) }

// PendingTimers returns the number of timers that have not fired or been
// stopped.
func (f *Fake) PendingTimers() int {
	n := 0
	for _, t := range f.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (f *Fake) RequestFrame(fn func()) FrameID {
	f.nextID++
	f.frames[f.nextID] = fn
	return f.nextID
}

func (f *Fake) CancelFrame(id FrameID) {
	delete(f.frames, id)
	delete(f.firing, id)
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{due: f.now + d, seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves virtual time forward by d. Timers due at the same instant
// as a refresh tick run first.
func (f *Fake) Advance(d time.Duration) {
	target := f.now + d
	for {
		f.compact()
		vsync := (f.now/f.interval + 1) * f.interval
		if t := f.nextTimer(); t != nil && t.due <= target && t.due <= vsync {
			f.now = t.due
			t.stopped = true
			t.fn()
			continue
		}
		if vsync > target {
			break
		}
		f.now = vsync
		f.fireFrames()
	}
	f.now = target
}

// AdvanceFrames moves time forward by n refresh intervals.
func (f *Fake) AdvanceFrames(n int) {
	f.Advance(time.Duration(n) * f.interval)
}

func (f *Fake) nextTimer() *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].due != f.timers[j].due {
			return f.timers[i].due < f.timers[j].due
		}
		return f.timers[i].seq < f.timers[j].seq
	})
	return f.timers[0]
}

func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(f.timers); i++ {
		f.timers[i] = nil
	}
	f.timers = live
}

func (f *Fake) fireFrames() {
	if len(f.frames) == 0 {
		return
	}
	f.firing = f.frames
	f.frames = make(map[FrameID]func())
	ids := make([]FrameID, 0, len(f.firing))
	for id := range f.firing {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn, ok := f.firing[id]
		if !ok {
			continue
		}
		f.frameCount++
		fn()
	}
	f.firing = nil
}

var (
	_ Host = (*Fake)(nil)
	_ Host = (*EventLoop)(nil)
)
