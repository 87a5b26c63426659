package source

import (
	"context"
	"math"
	"testing"
)

func TestMetadataScore(t *testing.T) {
	cases := []struct {
		name        string
		voteAverage float64
		popularity  float64
		trending    bool
		want        float64
	}{
		{"zero show", 0, 0, false, 0},
		{"chart topper trending", 10, 1000, true, 100},
		{"rating only", 8.5, 0, false, 34},    // 0.4 * 85
		{"popularity floor bucket", 0, 5, false, 4}, // 0.4 * 10
		{"trending only", 0, 0, true, 20},
		{"mid popularity", 0, 100, false, 24}, // 0.4 * 60
		{"rating clamps at 100", 12, 0, false, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := metadataScore(tc.voteAverage, tc.popularity, tc.trending)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("metadataScore(%v, %v, %v) = %v, want %v",
					tc.voteAverage, tc.popularity, tc.trending, got, tc.want)
			}
		})
	}
}

func TestMetadataScorePopularityMonotonic(t *testing.T) {
	prev := -1.0
	for _, pop := range []float64{0, 5, 10, 50, 100, 500, 1000, 5000} {
		got := metadataScore(0, pop, false)
		if got < prev {
			t.Fatalf("score dropped at popularity %v: %v < %v", pop, got, prev)
		}
		prev = got
	}
}

func TestTMDBRequiresAPIKey(t *testing.T) {
	c := NewTMDB("")
	if _, err := c.ShowMetrics(context.Background(), "Wednesday"); err == nil {
		t.Fatal("expected error without API key, got nil")
	}
}
