// Package virtlist provides the windowing math behind the session
// table and the transcript viewer: only rows intersecting the viewport
// plus an overscan buffer are materialized, row heights start from an
// estimate and are corrected once measured, and a sentinel past the
// last row drives infinite scrolling.
package virtlist

// DefaultOverscan is how many rows beyond each viewport edge stay
// materialized.
const DefaultOverscan = 5

// Virtualizer computes the visible window over a list of rows whose
// heights may be estimated first and measured later. It holds no row
// data, only geometry.
type Virtualizer struct {
	count     int
	overscan  int
	estimate  func(index int) int
	measured  map[int]int
	viewport  int
	scrollTop int
}

// Options configures a Virtualizer. Estimate is required; it returns
// the assumed height for an unmeasured row.
type Options struct {
	Count    int
	Viewport int
	Overscan int
	Estimate func(index int) int
}

func New(opts Options) *Virtualizer {
	overscan := opts.Overscan
	if overscan <= 0 {
		overscan = DefaultOverscan
	}
	estimate := opts.Estimate
	if estimate == nil {
		estimate = func(int) int { return 1 }
	}
	return &Virtualizer{
		count:    opts.Count,
		overscan: overscan,
		estimate: estimate,
		measured: make(map[int]int),
		viewport: opts.Viewport,
	}
}

// SetCount updates the row count, keeping measurements for rows that
// still exist.
func (v *Virtualizer) SetCount(count int) {
	for i := range v.measured {
		if i >= count {
			delete(v.measured, i)
		}
	}
	v.count = count
	v.clampScroll()
}

// SetViewport updates the viewport height.
func (v *Virtualizer) SetViewport(height int) {
	v.viewport = height
	v.clampScroll()
}

// Measure records the real height of a row, replacing its estimate.
// Later windows use the corrected value.
func (v *Virtualizer) Measure(index, height int) {
	if index < 0 || index >= v.count || height <= 0 {
		return
	}
	v.measured[index] = height
}

// ResetMeasurements drops all measured heights, falling back to
// estimates. Used when the row set is re-derived.
func (v *Virtualizer) ResetMeasurements() {
	v.measured = make(map[int]int)
}

func (v *Virtualizer) height(index int) int {
	if h, ok := v.measured[index]; ok {
		return h
	}
	return v.estimate(index)
}

// TotalHeight is the summed height of every row.
func (v *Virtualizer) TotalHeight() int {
	total := 0
	for i := 0; i < v.count; i++ {
		total += v.height(i)
	}
	return total
}

// ScrollTo sets the scroll offset, clamped to the scrollable range.
func (v *Virtualizer) ScrollTo(offset int) {
	v.scrollTop = offset
	v.clampScroll()
}

// ScrollBy adjusts the scroll offset by delta.
func (v *Virtualizer) ScrollBy(delta int) {
	v.ScrollTo(v.scrollTop + delta)
}

// ScrollOffset returns the current scroll position.
func (v *Virtualizer) ScrollOffset() int {
	return v.scrollTop
}

func (v *Virtualizer) clampScroll() {
	max := v.TotalHeight() - v.viewport
	if max < 0 {
		max = 0
	}
	if v.scrollTop > max {
		v.scrollTop = max
	}
	if v.scrollTop < 0 {
		v.scrollTop = 0
	}
}

// ScrollToIndexCenter positions the scroll offset so row index sits as
// close to the viewport center as clamping allows.
func (v *Virtualizer) ScrollToIndexCenter(index int) {
	if index < 0 || index >= v.count {
		return
	}
	top := 0
	for i := 0; i < index; i++ {
		top += v.height(i)
	}
	v.ScrollTo(top + v.height(index)/2 - v.viewport/2)
}

// Item is one materialized row: its index and position.
type Item struct {
	Index  int
	Offset int
	Height int
}

// Window returns the materialized rows: every row intersecting the
// viewport plus the overscan buffer on each side.
func (v *Virtualizer) Window() []Item {
	if v.count == 0 || v.viewport <= 0 {
		return nil
	}

	first, last := -1, -1
	offset := 0
	for i := 0; i < v.count; i++ {
		h := v.height(i)
		if first == -1 && offset+h > v.scrollTop {
			first = i
		}
		if offset < v.scrollTop+v.viewport {
			last = i
		}
		offset += h
	}
	if first == -1 {
		return nil
	}

	first -= v.overscan
	if first < 0 {
		first = 0
	}
	last += v.overscan
	if last >= v.count {
		last = v.count - 1
	}

	items := make([]Item, 0, last-first+1)
	offset = 0
	for i := 0; i < first; i++ {
		offset += v.height(i)
	}
	for i := first; i <= last; i++ {
		h := v.height(i)
		items = append(items, Item{Index: i, Offset: offset, Height: h})
		offset += h
	}
	return items
}

// SentinelVisible reports whether the slot just past the last row
// intersects the viewport.
func (v *Virtualizer) SentinelVisible() bool {
	return v.TotalHeight() < v.scrollTop+v.viewport
}

// ShouldFetchNext is the infinite-scroll trigger predicate: the
// sentinel is visible, more pages exist, and no fetch is already in
// flight. Gating on inFlight keeps repeated intersection events from
// issuing duplicate requests.
func ShouldFetchNext(sentinelVisible, hasNextPage, inFlight bool) bool {
	return sentinelVisible && hasNextPage && !inFlight
}
