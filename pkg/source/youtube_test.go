package source

import (
	"context"
	"testing"
)

func TestEngagementScore(t *testing.T) {
	cases := []struct {
		name   string
		videos []VideoStats
		want   float64
	}{
		{"no videos", nil, 0},
		{"ceiling at 5M average", []VideoStats{{Views: 6_000_000}}, 100},
		{"exactly 5M average", []VideoStats{{Views: 5_000_000}}, 100},
		{"1M average", []VideoStats{{Views: 1_000_000}}, 80},
		{"100k average", []VideoStats{{Views: 100_000}}, 50},
		{"10k average", []VideoStats{{Views: 10_000}}, 20},
		{"5k average", []VideoStats{{Views: 5_000}}, 10},
		{"zero views", []VideoStats{{Views: 0}}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engagementScore(tc.videos); got != tc.want {
				t.Errorf("engagementScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEngagementScoreInteractionLift(t *testing.T) {
	base := engagementScore([]VideoStats{{Views: 1_000_000, Likes: 10_000}})
	lifted := engagementScore([]VideoStats{{Views: 1_000_000, Likes: 50_000, Comments: 10_000}})
	if lifted != base+5 {
		t.Errorf("high like ratio should add 5: base=%v lifted=%v", base, lifted)
	}

	// The lift never pushes the score past 100.
	capped := engagementScore([]VideoStats{{Views: 10_000_000, Likes: 1_000_000}})
	if capped != 100 {
		t.Errorf("capped score = %v, want 100", capped)
	}
}

func TestEngagementScoreAveragesAcrossVideos(t *testing.T) {
	// 2M + 0 views over two videos averages 1M, the 80-point boundary.
	got := engagementScore([]VideoStats{{Views: 2_000_000}, {Views: 0}})
	if got != 80 {
		t.Errorf("engagementScore = %v, want 80", got)
	}
}

func TestYouTubeRequiresAPIKey(t *testing.T) {
	y := NewYouTube("", 5)
	if _, err := y.ShowMetrics(context.Background(), "Stranger Things"); err == nil {
		t.Fatal("expected error without API key, got nil")
	}
}
