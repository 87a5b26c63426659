package source

import (
	"math"
	"strings"
	"unicode"
)

// Sentiment lexicon tuned for entertainment-news headlines. Weights are
// on a -4..4 scale; the compound score is normalized into [-1, 1].
var sentimentWeights = map[string]float64{
	// positive
	"amazing": 3.0, "awesome": 3.1, "best": 3.2, "breakout": 2.4,
	"brilliant": 2.8, "captivating": 2.2, "celebrated": 2.0, "charming": 2.0,
	"compelling": 2.1, "dazzling": 2.5, "epic": 2.3, "excellent": 2.7,
	"exciting": 2.2, "fantastic": 2.6, "favorite": 2.0, "great": 2.1,
	"gripping": 2.2, "hit": 2.0, "hilarious": 2.4, "hype": 1.6,
	"incredible": 2.9, "love": 2.7, "loved": 2.9, "masterpiece": 3.4,
	"perfect": 3.0, "phenomenal": 3.2, "popular": 1.5, "praise": 2.3,
	"praised": 2.4, "record": 1.8, "renewed": 2.2, "smash": 2.1,
	"spectacular": 2.8, "stunning": 2.5, "success": 2.4, "thrilling": 2.2,
	"top": 1.5, "triumph": 2.8, "win": 2.0, "wins": 2.0, "wonderful": 2.7,

	// negative
	"awful": -3.1, "backlash": -2.3, "bad": -2.5, "bland": -1.8,
	"bomb": -2.4, "boring": -2.2, "cancel": -2.0, "canceled": -2.6,
	"cancelled": -2.6, "controversy": -1.9, "criticized": -2.2,
	"decline": -1.8, "disappointing": -2.6, "disaster": -3.0, "dull": -2.0,
	"fail": -2.5, "failed": -2.6, "failure": -2.7, "flop": -2.8,
	"hate": -2.7, "hated": -2.9, "lawsuit": -2.0, "mediocre": -1.7,
	"mess": -2.1, "panned": -2.5, "poor": -2.2, "problem": -1.6,
	"scandal": -2.3, "slump": -1.9, "terrible": -3.0, "waste": -2.4,
	"worst": -3.3,
}

// Negation tokens flip the sign of the following sentiment word.
var sentimentNegations = map[string]bool{
	"not": true, "no": true, "never": true, "hardly": true,
	"isnt": true, "wasnt": true, "dont": true, "doesnt": true,
	"didnt": true, "cant": true, "wont": true,
}

// AnalyzeSentiment scores a piece of text in [-1, 1], where -1 is
// strongly negative and 1 strongly positive. Zero means neutral or no
// sentiment-bearing words found. It is a deliberately small stand-in for
// a full sentiment model: token weights, negation flipping, and a
// magnitude-squashing normalization.
func AnalyzeSentiment(text string) float64 {
	if text == "" {
		return 0
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sum float64
	negate := false
	for _, tok := range tokens {
		if sentimentNegations[tok] {
			negate = true
			continue
		}
		if w, ok := sentimentWeights[tok]; ok {
			if negate {
				w = -w * 0.74
			}
			sum += w
		}
		negate = false
	}

	if sum == 0 {
		return 0
	}
	// Squash the raw sum into [-1, 1]; alpha follows the usual lexicon
	// normalization constant.
	return sum / math.Sqrt(sum*sum+15)
}
