package virtlist

import "testing"

func fixedHeight(h int) func(int) int {
	return func(int) int { return h }
}

func TestWindowCoversViewportPlusOverscan(t *testing.T) {
	v := New(Options{Count: 100, Viewport: 100, Overscan: 2, Estimate: fixedHeight(10)})
	v.ScrollTo(250)

	items := v.Window()
	if len(items) == 0 {
		t.Fatal("empty window")
	}
	first, last := items[0].Index, items[len(items)-1].Index
	// Rows 25..34 intersect, overscan 2 each side.
	if first != 23 || last != 36 {
		t.Fatalf("window = [%d, %d], want [23, 36]", first, last)
	}
	if items[0].Offset != 230 {
		t.Fatalf("first offset = %d, want 230", items[0].Offset)
	}
}

func TestWindowClampsAtEdges(t *testing.T) {
	v := New(Options{Count: 10, Viewport: 50, Overscan: 5, Estimate: fixedHeight(10)})

	items := v.Window()
	if items[0].Index != 0 {
		t.Fatalf("window must start at 0, got %d", items[0].Index)
	}

	v.ScrollTo(10_000)
	items = v.Window()
	if items[len(items)-1].Index != 9 {
		t.Fatalf("window must end at last row, got %d", items[len(items)-1].Index)
	}
	if v.ScrollOffset() != 50 {
		t.Fatalf("scroll must clamp to total-viewport, got %d", v.ScrollOffset())
	}
}

func TestMeasurementCorrectsEstimate(t *testing.T) {
	v := New(Options{Count: 3, Viewport: 500, Estimate: fixedHeight(60)})
	if got := v.TotalHeight(); got != 180 {
		t.Fatalf("estimated total = %d, want 180", got)
	}

	v.Measure(1, 200)
	if got := v.TotalHeight(); got != 320 {
		t.Fatalf("corrected total = %d, want 320", got)
	}

	items := v.Window()
	if items[2].Offset != 260 {
		t.Fatalf("row 2 offset = %d, want 260 after correction", items[2].Offset)
	}

	v.ResetMeasurements()
	if got := v.TotalHeight(); got != 180 {
		t.Fatalf("reset total = %d, want 180", got)
	}
}

func TestSetCountDropsStaleMeasurements(t *testing.T) {
	v := New(Options{Count: 5, Viewport: 100, Estimate: fixedHeight(10)})
	v.Measure(4, 99)
	v.SetCount(3)
	v.SetCount(5)
	if got := v.TotalHeight(); got != 50 {
		t.Fatalf("measurement for removed row must not survive, total = %d", got)
	}
}

func TestScrollToIndexCenter(t *testing.T) {
	v := New(Options{Count: 100, Viewport: 100, Estimate: fixedHeight(10)})
	v.ScrollToIndexCenter(50)
	// Row 50 spans [500, 510); centered puts its middle at offset+50.
	if got := v.ScrollOffset(); got != 455 {
		t.Fatalf("center scroll = %d, want 455", got)
	}

	v.ScrollToIndexCenter(0)
	if got := v.ScrollOffset(); got != 0 {
		t.Fatalf("centering first row must clamp to 0, got %d", got)
	}
}

func TestSentinelPredicate(t *testing.T) {
	v := New(Options{Count: 5, Viewport: 100, Estimate: fixedHeight(10)})
	if !v.SentinelVisible() {
		t.Fatal("short list leaves sentinel visible")
	}
	if !ShouldFetchNext(v.SentinelVisible(), true, false) {
		t.Fatal("should fetch when sentinel visible and idle")
	}
	if ShouldFetchNext(v.SentinelVisible(), true, true) {
		t.Fatal("in-flight fetch must gate the trigger")
	}
	if ShouldFetchNext(v.SentinelVisible(), false, false) {
		t.Fatal("no next page means no fetch")
	}

	v.SetCount(50)
	if v.SentinelVisible() {
		t.Fatal("sentinel hidden while content exceeds viewport")
	}
}
