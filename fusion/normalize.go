package fusion

import "math"

// minScore replaces a normalized 0 so the document is not mistaken for
// absent by the combination step.
const minScore = 0.001

func normalize(n Normalization, scores []float32) {
	if len(scores) == 0 {
		return
	}
	switch n {
	case MinMax:
		normalizeMinMax(scores)
	case L2:
		normalizeL2(scores)
	case ZScore:
		normalizeZScore(scores)
	}
}

func normalizeMinMax(scores []float32) {
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	if hi == lo {
		for i := range scores {
			scores[i] = 1
		}
		return
	}
	for i, s := range scores {
		v := (s - lo) / (hi - lo)
		if v == 0 {
			v = minScore
		}
		scores[i] = v
	}
}

func normalizeL2(scores []float32) {
	var sum float64
	for _, s := range scores {
		sum += float64(s) * float64(s)
	}
	norm := math.Sqrt(sum)
	for i, s := range scores {
		v := float32(float64(s) / norm)
		if v == 0 {
			v = minScore
		}
		scores[i] = v
	}
}

func normalizeZScore(scores []float32) {
	var mean float64
	for _, s := range scores {
		mean += float64(s)
	}
	mean /= float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(scores)))

	for i, s := range scores {
		if std == 0 {
			scores[i] = 1
			continue
		}
		v := float32((float64(s) - mean) / std)
		if v == 0 {
			v = minScore
		}
		scores[i] = v
	}
}
