package score

import (
	"math"
	"testing"

	"github.com/showradar/showradar/pkg/source"
)

func f(v float64) *float64 { return &v }

func bundle(show string, market *source.MarketQuote, engagement, news, metadata float64, views int64) source.ShowMetrics {
	return source.ShowMetrics{
		Show:       show,
		Market:     market,
		Engagement: source.EngagementMetrics{Score: engagement},
		News:       source.NewsMetrics{Score: news},
		Metadata:   source.MetadataMetrics{Score: metadata},
		PageViews:  source.PageViewMetrics{Total: views},
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestScoreTwoShowScenario(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	bundles := []source.ShowMetrics{
		bundle("A", &source.MarketQuote{LastPrice: f(60)}, 50, 40, 30, 700),
		bundle("B", &source.MarketQuote{LastPrice: f(20)}, 10, 10, 10, 300),
	}

	results := engine.Score(bundles)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// A: .5*60 + .2*50 + .15*40 + .1*30 + .05*70 = 52.5
	// B: .5*20 + .2*10 + .15*10 + .1*10 + .05*30 = 16
	// total 68.5 -> fair A = 76.6, fair B = 23.4
	a, b := results[0], results[1]
	if a.Show != "A" || b.Show != "B" {
		t.Fatalf("expected order A, B; got %s, %s", a.Show, b.Show)
	}
	if a.CompositeScore != 52.5 {
		t.Errorf("composite A = %v, want 52.5", a.CompositeScore)
	}
	if b.CompositeScore != 16.0 {
		t.Errorf("composite B = %v, want 16", b.CompositeScore)
	}
	if a.FairPrice != 76.6 {
		t.Errorf("fair price A = %v, want 76.6", a.FairPrice)
	}
	if b.FairPrice != 23.4 {
		t.Errorf("fair price B = %v, want 23.4", b.FairPrice)
	}
	if a.ViewShare != 70.0 || b.ViewShare != 30.0 {
		t.Errorf("view shares = %v, %v, want 70, 30", a.ViewShare, b.ViewShare)
	}
}

func TestScoreWeightsAreExact(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	// Isolate each component with a 100-valued metric and check the
	// composite equals the component's weight times 100.
	cases := []struct {
		name   string
		bundle source.ShowMetrics
		want   float64
	}{
		{"market", bundle("m", &source.MarketQuote{LastPrice: f(100)}, 0, 0, 0, 0), 50},
		{"engagement", bundle("e", nil, 100, 0, 0, 0), 20},
		{"news", bundle("n", nil, 0, 100, 0, 0), 15},
		{"metadata", bundle("t", nil, 0, 0, 100, 0), 10},
		{"view share", bundle("v", nil, 0, 0, 0, 1000), 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := engine.Score([]source.ShowMetrics{tc.bundle})
			if results[0].CompositeScore != tc.want {
				t.Errorf("composite = %v, want %v", results[0].CompositeScore, tc.want)
			}
		})
	}
}

func TestScoreFairPricesSumToHundred(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	bundles := []source.ShowMetrics{
		bundle("A", &source.MarketQuote{LastPrice: f(37)}, 81, 12, 55, 1234),
		bundle("B", &source.MarketQuote{LastPrice: f(9)}, 3, 66, 20, 777),
		bundle("C", &source.MarketQuote{YesBid: f(48)}, 50, 50, 50, 0),
		bundle("D", nil, 11, 7, 93, 4321),
	}

	results := engine.Score(bundles)

	var fairSum, shareSum float64
	for _, r := range results {
		fairSum += r.FairPrice
		shareSum += r.ViewShare
	}

	tol := float64(len(results)) * 0.05
	if !almostEqual(fairSum, 100, tol) {
		t.Errorf("fair prices sum to %v, want ~100", fairSum)
	}
	if !almostEqual(shareSum, 100, tol) {
		t.Errorf("view shares sum to %v, want ~100", shareSum)
	}
}

func TestScoreDegenerateCohort(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	bundles := []source.ShowMetrics{
		bundle("A", nil, 0, 0, 0, 0),
		bundle("B", nil, 0, 0, 0, 0),
		bundle("C", nil, 0, 0, 0, 0),
	}

	results := engine.Score(bundles)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, r := range results {
		if r.CompositeScore != 0 || r.FairPrice != 0 || r.ViewShare != 0 {
			t.Errorf("%s: expected all-zero scores, got composite=%v fair=%v share=%v",
				r.Show, r.CompositeScore, r.FairPrice, r.ViewShare)
		}
		if r.Recommendation != Hold {
			t.Errorf("%s: recommendation = %s, want HOLD", r.Show, r.Recommendation)
		}
		if r.Edge != 0 {
			t.Errorf("%s: edge = %v, want 0", r.Show, r.Edge)
		}
	}
}

func TestScoreEmptyCohort(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)
	results := engine.Score(nil)
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %d", len(results))
	}
}

func TestSignalThresholds(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	cases := []struct {
		name     string
		fair     float64
		market   *source.MarketQuote
		wantRec  Recommendation
		wantEdge float64
	}{
		{"buy above ask plus margin", 80, &source.MarketQuote{YesAsk: f(70)}, Buy, 10},
		{"hold within margin", 74, &source.MarketQuote{YesAsk: f(70)}, Hold, 0},
		{"sell below bid minus margin", 20, &source.MarketQuote{YesBid: f(30)}, Sell, 10},
		{"hold just inside sell margin", 26, &source.MarketQuote{YesBid: f(30)}, Hold, 0},
		{"no market holds", 50, nil, Hold, 0},
		{"no ask defaults to 100", 99, &source.MarketQuote{YesBid: f(90)}, Hold, 0},
		{"no bid defaults to 0", 4, &source.MarketQuote{YesAsk: f(95)}, Hold, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, edge := engine.signal(tc.fair, tc.market)
			if rec != tc.wantRec {
				t.Errorf("recommendation = %s, want %s", rec, tc.wantRec)
			}
			if edge != tc.wantEdge {
				t.Errorf("edge = %v, want %v", edge, tc.wantEdge)
			}
		})
	}
}

func TestMarketFallbackOrder(t *testing.T) {
	cases := []struct {
		name   string
		market *source.MarketQuote
		want   float64
	}{
		{"last price wins when non-zero", &source.MarketQuote{LastPrice: f(60), YesBid: f(40)}, 60},
		{"zero last price falls to bid", &source.MarketQuote{LastPrice: f(0), YesBid: f(40)}, 40},
		{"absent last price falls to bid", &source.MarketQuote{YesBid: f(40)}, 40},
		{"present zero bid is zero", &source.MarketQuote{LastPrice: f(0), YesBid: f(0)}, 0},
		{"nothing present", &source.MarketQuote{}, 0},
		{"nil market", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.market.ImpliedPrice(); got != tc.want {
				t.Errorf("ImpliedPrice() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreStableSortPreservesInputOrderOnTies(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	// Identical bundles tie on fair price; output must keep input order.
	bundles := []source.ShowMetrics{
		bundle("first", &source.MarketQuote{LastPrice: f(30)}, 20, 20, 20, 100),
		bundle("second", &source.MarketQuote{LastPrice: f(30)}, 20, 20, 20, 100),
		bundle("third", &source.MarketQuote{LastPrice: f(30)}, 20, 20, 20, 100),
	}

	results := engine.Score(bundles)
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if results[i].Show != name {
			t.Errorf("results[%d] = %s, want %s", i, results[i].Show, name)
		}
	}
}

func TestScoreZeroViewsCohort(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	bundles := []source.ShowMetrics{
		bundle("A", &source.MarketQuote{LastPrice: f(50)}, 10, 10, 10, 0),
		bundle("B", &source.MarketQuote{LastPrice: f(40)}, 10, 10, 10, 0),
	}

	results := engine.Score(bundles)
	for _, r := range results {
		if r.ViewShare != 0 {
			t.Errorf("%s: view share = %v, want 0 when cohort has no views", r.Show, r.ViewShare)
		}
	}
}

func TestNewEngineDefaults(t *testing.T) {
	engine := NewEngine(Weights{}, 0)
	if engine.weights != DefaultWeights() {
		t.Errorf("zero weights should fall back to defaults, got %+v", engine.weights)
	}
	if engine.margin != DefaultMargin {
		t.Errorf("zero margin should fall back to %v, got %v", DefaultMargin, engine.margin)
	}
}

func TestResultBundleStripsComputedFields(t *testing.T) {
	engine := NewEngine(DefaultWeights(), DefaultMargin)

	in := bundle("A", &source.MarketQuote{LastPrice: f(60), YesAsk: f(40)}, 50, 40, 30, 700)
	results := engine.Score([]source.ShowMetrics{in})

	got := results[0].Bundle()
	if got.Show != in.Show {
		t.Errorf("projected show = %s, want %s", got.Show, in.Show)
	}
	if got.Engagement.Score != in.Engagement.Score || got.PageViews.Total != in.PageViews.Total {
		t.Errorf("projection changed raw metrics: %+v", got)
	}

	// Re-scoring the projection must reproduce the original run.
	again := engine.Score([]source.ShowMetrics{got})
	if again[0].CompositeScore != results[0].CompositeScore ||
		again[0].FairPrice != results[0].FairPrice ||
		again[0].Recommendation != results[0].Recommendation {
		t.Errorf("re-scored projection diverged: %+v vs %+v", again[0], results[0])
	}
}
