package virtlist

// Move returns the id ordering after dragging the row at source and
// dropping it at target, both indices into the full rendered row
// array. Dropping on the source index or passing an out-of-range index
// returns ids unchanged.
func Move(ids []string, source, target int) []string {
	if source == target ||
		source < 0 || source >= len(ids) ||
		target < 0 || target >= len(ids) {
		return ids
	}

	out := make([]string, 0, len(ids))
	out = append(out, ids[:source]...)
	out = append(out, ids[source+1:]...)

	moved := ids[source]
	out = append(out[:target], append([]string{moved}, out[target:]...)...)
	return out
}

// Drag tracks an in-progress row drag. A drop with no prior drag start
// is a no-op.
type Drag struct {
	source  int
	started bool
}

// Start records the dragged row index.
func (d *Drag) Start(index int) {
	d.source = index
	d.started = true
}

// Drop finishes the drag over target and reports the (source, target)
// pair to act on. ok is false when no drag was in progress or the drop
// lands on the source row.
func (d *Drag) Drop(target int) (source int, ok bool) {
	if !d.started {
		return 0, false
	}
	d.started = false
	if target == d.source {
		return 0, false
	}
	return d.source, true
}

// Cancel abandons an in-progress drag.
func (d *Drag) Cancel() {
	d.started = false
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool {
	return d.started
}
