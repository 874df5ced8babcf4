// Package trial sequences a single kinematogram trial.
//
// A trial runs fixation, then a stimulus in a randomly chosen direction,
// then a blank screen:
//
//	Idle -> Fixation -> Stimulus -> Blank -> Idle
//
// The [Controller] owns exactly one timer. Starting a new trial stops that
// timer and any running animation before fixation begins, so two timer
// chains can never coexist.
package trial
