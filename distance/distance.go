package distance

import (
	"fmt"
	"math"
)

// Metric identifies a vector similarity function.
type Metric uint8

const (
	// Cosine is cosine similarity.
	Cosine Metric = iota
	// L2 is squared Euclidean distance.
	L2
	// DotProduct is the inner product.
	DotProduct
)

// String returns the metric name.
func (m Metric) String() string {
	switch m {
	case Cosine:
		return "cosine"
	case L2:
		return "l2"
	case DotProduct:
		return "dot"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// ParseMetric parses a metric name.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "cosine", "cosinesimil":
		return Cosine, nil
	case "l2", "euclidean":
		return L2, nil
	case "dot", "innerproduct", "dot_product":
		return DotProduct, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Magnitude calculates the L2 norm of v.
func Magnitude(v []float32) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 if either vector has zero magnitude.
func CosineSimilarity(a, b []float32) float32 {
	ma := Magnitude(a)
	mb := Magnitude(b)
	if ma == 0 || mb == 0 {
		return 0
	}
	return Dot(a, b) / (ma * mb)
}

// Score maps the raw similarity between a and b to a positive relevance
// score where higher is better:
//
//	cosine: (1 + cos) / 2
//	l2:     1 / (1 + d²)
//	dot:    dot >= 0 ? dot + 1 : 1 / (1 - dot)
func (m Metric) Score(a, b []float32) float32 {
	switch m {
	case L2:
		return 1 / (1 + SquaredL2(a, b))
	case DotProduct:
		d := Dot(a, b)
		if d < 0 {
			return 1 / (1 - d)
		}
		return d + 1
	default:
		return (1 + CosineSimilarity(a, b)) / 2
	}
}
