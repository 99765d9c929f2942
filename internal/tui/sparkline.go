package tui

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a row of Unicode block characters, at most
// width columns wide. Longer series are bucketed by averaging so a full
// day of samples still fits one terminal row.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = bucketAverage(values, width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]rune, len(values))
	if hi == lo {
		for i := range out {
			out[i] = sparkBlocks[len(sparkBlocks)/2]
		}
		return string(out)
	}

	for i, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

func bucketAverage(values []float64, buckets int) []float64 {
	out := make([]float64, buckets)
	per := float64(len(values)) / float64(buckets)
	for i := 0; i < buckets; i++ {
		start := int(float64(i) * per)
		end := int(float64(i+1) * per)
		if end > len(values) {
			end = len(values)
		}
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
