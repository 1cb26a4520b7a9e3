// Package detection finds straight line segments and shape regions in
// rasterized images.
//
// The core is a modified Hough transform. A classic Hough transform has
// every edge pixel vote for every line that could pass through it, which
// finds everything but drowns real lines in coincidental alignments. This
// implementation prunes the vote: each edge pixel votes only for a narrow
// band of angles centered on its local gradient direction, since the
// gradient at an edge pixel points across the line the pixel sits on. The
// band absorbs per-pixel gradient noise; the pruning keeps false positives
// down without raising the vote threshold past short real lines.
//
// Unlike a textbook Hough transform, the accumulator tracks the two extreme
// pixels that voted for each cell, so the output is line SEGMENTS with real
// endpoints rather than infinite lines. Two collinear segments pointing at
// each other stay distinct unless the x gap between them is within
// Config.MaxGapBetweenDashes.
//
// # Pipeline
//
//  1. Voting: edge pixels (from the shared imaging.LuminanceMap) vote into
//     the (rho, theta) accumulator.
//  2. Harvesting: cells above the vote threshold become candidates, in
//     theta-outer, rho-inner order.
//  3. Merging: overlapping collinear candidates collapse into one segment;
//     the survivors are densified against the edge map.
//  4. Filtering: too-short (and optionally too-sparse) segments drop out.
//
// Region extraction (ExtractRegions) shares the same edge map and groups
// connected edge pixels into shapes with flood fill.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with origin at top-left; X grows right and
// Y grows down. The parameterization rho = x*cos(theta) - y*sin(theta)
// assumes exactly this orientation.
//
// # Threshold Regimes
//
// Two tuning regimes exist: strict (the default, for technical line art)
// and squishy (for organic imagery with short broken lines). See Config.
//
// # Concurrency
//
// Detection is single-threaded by design. Each phase runs to completion
// and hands exclusive ownership of its output to the next.
package detection
