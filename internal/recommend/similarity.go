package recommend

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors of
// equal length: their dot product divided by the product of magnitudes.
// A zero vector has no direction, so similarity against it is defined as 0.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
