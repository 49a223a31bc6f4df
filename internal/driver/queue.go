package driver

// FrameQueue is a Scheduler whose callbacks run when the owner pumps it,
// typically once per host update.
type FrameQueue struct {
	pending []func()
}

// RequestNextFrame queues cb for the next RunPending.
func (q *FrameQueue) RequestNextFrame(cb func()) {
	q.pending = append(q.pending, cb)
}

// RunPending runs the callbacks queued before the call and returns how many
// ran. Callbacks queued while running wait for the next call.
func (q *FrameQueue) RunPending() int {
	batch := q.pending
	q.pending = nil
	for _, cb := range batch {
		cb()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (q *FrameQueue) Len() int {
	return len(q.pending)
}
