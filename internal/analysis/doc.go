// Package analysis provides statistics over dot headings.
//
// It quantifies how much of the motion field follows the signal direction:
//
//   - [Uniformity]: chi-square goodness-of-fit against a uniform circle
//   - [Resultant]: circular mean direction and mean resultant length
//   - [Histogram]: binned heading counts for plotting
package analysis
