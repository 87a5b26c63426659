package source

import (
	"math"
	"testing"
)

func neutralArticles(n int) []Article {
	articles := make([]Article, n)
	for i := range articles {
		articles[i] = Article{Title: "headline", Sentiment: 0}
	}
	return articles
}

func TestNewsScore(t *testing.T) {
	t.Run("no articles", func(t *testing.T) {
		score, avg := newsScore(nil)
		if score != 0 || avg != 0 {
			t.Errorf("newsScore(nil) = %v, %v, want 0, 0", score, avg)
		}
	})

	t.Run("neutral saturation coverage", func(t *testing.T) {
		// 50 neutral articles: full volume half plus the sentiment midpoint.
		score, avg := newsScore(neutralArticles(50))
		if score != 75 {
			t.Errorf("score = %v, want 75", score)
		}
		if avg != 0 {
			t.Errorf("avg sentiment = %v, want 0", avg)
		}
	})

	t.Run("volume caps at fifty", func(t *testing.T) {
		at50, _ := newsScore(neutralArticles(50))
		at80, _ := newsScore(neutralArticles(80))
		if at80 != at50 {
			t.Errorf("volume above 50 should not raise the score: %v vs %v", at80, at50)
		}
	})

	t.Run("sentiment moves the score", func(t *testing.T) {
		positive := []Article{{Sentiment: 0.8}, {Sentiment: 0.6}}
		negative := []Article{{Sentiment: -0.8}, {Sentiment: -0.6}}
		pScore, pAvg := newsScore(positive)
		nScore, nAvg := newsScore(negative)
		if pScore <= nScore {
			t.Errorf("positive coverage should outscore negative: %v vs %v", pScore, nScore)
		}
		if math.Abs(pAvg-0.7) > 1e-9 || math.Abs(nAvg+0.7) > 1e-9 {
			t.Errorf("avg sentiments = %v, %v, want 0.7, -0.7", pAvg, nAvg)
		}
	})

	t.Run("single neutral article", func(t *testing.T) {
		score, _ := newsScore(neutralArticles(1))
		// Volume half: 1/50*100*0.5 = 1. Sentiment half: 50*0.5 = 25.
		if math.Abs(score-26) > 1e-9 {
			t.Errorf("score = %v, want 26", score)
		}
	})
}
