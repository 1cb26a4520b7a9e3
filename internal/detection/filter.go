package detection

// filterSegments applies the final keep/discard passes to the accepted
// list, preserving insertion order.
//
// The length filter is always on. The density filter is off unless asked
// for: the reference tuning predates the merge rebuilding pixel lists, so
// the default output matches it, but since this merger re-densifies on
// every merge the density numbers are trustworthy and the filter is safe
// to enable.
func filterSegments(segments []*Segment, cfg Config, enableDensityFilter bool) []*Segment {
	kept := segments[:0]
	for _, s := range segments {
		if s.Len() < cfg.MinUsefulLineLength {
			continue
		}
		if enableDensityFilter && s.Len() > 0 {
			if float64(s.PixelCount)/s.Len() < cfg.MinPixelDensity {
				continue
			}
		}
		kept = append(kept, s)
	}
	return kept
}
