package store

import "sync"

// Operation names a kind of store call for loading-state tracking.
type Operation string

const (
	OpFetch      Operation = "fetch"
	OpAdd        Operation = "add"
	OpRemove     Operation = "remove"
	OpMoveToCart Operation = "move_to_cart"
	OpClear      Operation = "clear"
	OpBulkRemove Operation = "bulk_remove"
	OpBulkMove   Operation = "bulk_move_to_cart"
	OpStats      Operation = "stats"
	OpCartFetch  Operation = "cart_fetch"
	OpCartAdd    Operation = "cart_add"
	OpCartUpdate Operation = "cart_update"
	OpCartRemove Operation = "cart_remove"
	OpCartClear  Operation = "cart_clear"
)

// statusTracker counts in-flight calls per operation, so one call finishing
// never clears the loading state of another still running.
type statusTracker struct {
	mu       sync.Mutex
	inFlight map[Operation]int
}

func newStatusTracker() *statusTracker {
	return &statusTracker{inFlight: make(map[Operation]int)}
}

// begin marks op in flight and returns the func that ends it.
func (t *statusTracker) begin(op Operation) func() {
	t.mu.Lock()
	t.inFlight[op]++
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if t.inFlight[op] <= 1 {
				delete(t.inFlight, op)
				return
			}
			t.inFlight[op]--
		})
	}
}

func (t *statusTracker) active(op Operation) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[op] > 0
}

func (t *statusTracker) any() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight) > 0
}

func (t *statusTracker) snapshot() map[Operation]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Operation]int, len(t.inFlight))
	for op, n := range t.inFlight {
		out[op] = n
	}
	return out
}
