// Package analysis extracts orbital properties from recorded runs.
//
//   - [DominantPeriod]: strongest periodic component of a series, via FFT
//   - [Relative], [Apsides], [Crossings]: geometry of one body's orbit about another
//   - [LyapunovExponent]: sensitivity of a scenario to a small displacement
//   - [PortraitToASCII]: quick terminal plot of an orbit
//
// # Period estimation
//
// The x coordinate of a body relative to the body it orbits oscillates once
// per revolution:
//
//	rel := analysis.Relative(tr.Track("Earth"), tr.Track("Sun"))
//	period, err := analysis.DominantPeriod(analysis.Xs(rel), sampleInterval)
package analysis
