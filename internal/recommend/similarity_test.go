package recommend

import (
	"math"
	"testing"
)

// TestCosineSimilarity tests the cosine similarity boundaries.
func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{
			name: "zero vector yields 0",
			a:    []float64{0, 0},
			b:    []float64{1, 1},
			want: 0,
		},
		{
			name: "both zero vectors yield 0",
			a:    []float64{0, 0},
			b:    []float64{0, 0},
			want: 0,
		},
		{
			name: "identical vectors yield 1",
			a:    []float64{1, 1},
			b:    []float64{1, 1},
			want: 1,
		},
		{
			name: "scaled vectors yield 1",
			a:    []float64{2, 4},
			b:    []float64{1, 2},
			want: 1,
		},
		{
			name: "orthogonal vectors yield 0",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors yield -1",
			a:    []float64{1, 1},
			b:    []float64{-1, -1},
			want: -1,
		},
		{
			name: "partial overlap",
			a:    []float64{1, 1, 0},
			b:    []float64{1, 0, 0},
			want: 1 / math.Sqrt2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
