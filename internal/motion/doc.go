// Package motion implements the dot-motion field of a random-dot kinematogram.
//
// The package defines the simulation primitives:
//
//   - [Dot]: a particle with position and heading
//   - [Aperture]: the circular region bounding dot positions
//   - [Field]: the dot collection and its per-frame update rule
//
// # Update Rule
//
// On every step each dot independently either adopts the signal direction
// (with probability equal to the coherence) or draws a fresh uniform heading,
// then advances by the speed factor. Dots leaving the aperture reappear at
// the antipodal point on the rim.
//
// # Thread Safety
//
// A Field is NOT safe for concurrent use. It is driven from the single
// control thread owned by the animation loop.
package motion
