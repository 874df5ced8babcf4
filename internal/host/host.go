package host

import "time"

// DefaultFPS is the refresh rate assumed when none is configured.
const DefaultFPS = 60

// FrameID identifies a pending frame request. The zero value is never
// issued and cancelling it is a no-op.
type FrameID uint64

// Timer is a cancellable delay timer.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped a pending timer; stopping twice is safe.
	Stop() bool
}

// Host is the frame scheduler and timer source the loop and trial
// controller run on.
type Host interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
	AfterFunc(d time.Duration, fn func()) Timer
}

// FrameInterval returns the duration of one refresh at fps.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
