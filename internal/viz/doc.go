// Package viz provides a terminal drawing surface for the kinematogram.
//
// [Canvas] is a Braille pixel grid (2x4 dots per character cell) and
// [Surface] adapts it to [render.Surface], mapping surface coordinates onto
// the sub-pixel grid with a uniform scale so the aperture stays round.
//
// Themes select the colours the terminal UI paints the canvas with.
package viz
