package fusion

import "math"

// combine merges one document's normalized scores. Sub-queries scoring 0
// are skipped; geometric and harmonic means also skip negative scores.
func combine(opts Options, scores []float32) float32 {
	switch opts.Combination {
	case GeometricMean:
		return geometricMean(opts, scores)
	case HarmonicMean:
		return harmonicMean(opts, scores)
	default:
		return arithmeticMean(opts, scores)
	}
}

func arithmeticMean(opts Options, scores []float32) float32 {
	var sum, weights float64
	for i, s := range scores {
		if s == 0 {
			continue
		}
		w := float64(opts.weight(i))
		sum += w * float64(s)
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return float32(sum / weights)
}

func geometricMean(opts Options, scores []float32) float32 {
	var logSum, weights float64
	for i, s := range scores {
		if s <= 0 {
			continue
		}
		w := float64(opts.weight(i))
		logSum += w * math.Log(float64(s))
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return float32(math.Exp(logSum / weights))
}

func harmonicMean(opts Options, scores []float32) float32 {
	var inv, weights float64
	for i, s := range scores {
		if s <= 0 {
			continue
		}
		w := float64(opts.weight(i))
		inv += w / float64(s)
		weights += w
	}
	if inv == 0 {
		return 0
	}
	return float32(weights / inv)
}
