package schedule

// Status tracks one task's lifecycle through the pool.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusWorking  Status = "working"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusTimeout  Status = "timeout"
)

// Event is a progress notification for a single task.
type Event struct {
	Graph   string
	Metric  string
	Status  Status
	Message string
}

// Reporter emits progress events through a buffered channel.
type Reporter struct {
	ch chan Event
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{ch: make(chan Event, 64)}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (r *Reporter) Emit(event Event) {
	select {
	case r.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (r *Reporter) Subscribe() <-chan Event {
	return r.ch
}

// Close closes the event channel. Emit must not be called afterwards.
func (r *Reporter) Close() {
	close(r.ch)
}
