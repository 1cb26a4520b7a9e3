// Package imaging provides the pixel-level groundwork for line and region
// detection: image loading and caching, the shared luminance/gradient map,
// and color sampling.
//
// The central type is LuminanceMap, which is built once per source image and
// answers every later "is this pixel an edge?" and "what is the local
// gradient?" question. Detection code never reads the source image directly;
// it reads the map. This keeps the expensive grayscale and Sobel work to a
// single pass and gives every consumer the same answers.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// LuminanceMap queries clamp out-of-range coordinates to the borders
// (border replication), so kernel code may probe one pixel past every edge
// without bounds checks.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. A LuminanceMap is immutable after
// construction and therefore safe to share; building one is single-threaded.
package imaging
