// Package host provides the scheduling primitives the kinematogram runs on.
//
// A [Host] offers a frame-scheduling primitive (one callback per display
// refresh) and cancellable delay timers. Every callback runs on a single
// control thread, so the simulation needs no locks:
//
//   - [EventLoop]: a real host driven by a ticker at the refresh rate
//   - [Fake]: a deterministic host advanced manually, for tests and
//     headless runs
package host
