package tui

// frameSlot holds at most one pending FrameMsg. Offer never blocks: a
// newer snapshot replaces an unread one. An unread error is carried over
// so a following frame does not hide it. Offer must be called from a
// single goroutine.
type frameSlot struct {
	ch chan FrameMsg
}

func newFrameSlot() *frameSlot {
	return &frameSlot{ch: make(chan FrameMsg, 1)}
}

func (s *frameSlot) Offer(msg FrameMsg) {
	for {
		select {
		case s.ch <- msg:
			return
		default:
		}
		select {
		case old := <-s.ch:
			if msg.Err == nil {
				msg.Err = old.Err
			}
		default:
		}
	}
}

func (s *frameSlot) C() <-chan FrameMsg { return s.ch }
