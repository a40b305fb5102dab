// ABOUTME: Thinking tracks which agent operations are pending, scoped per operation.
// ABOUTME: Replaces the single global "agent is thinking" boolean that conflated unrelated asks.
package workflow

// Operation tags a logical agent operation awaiting a channel event.
type Operation string

const (
	// OpAgent is generic server-initiated activity announced by status updates.
	OpAgent    Operation = "agent"
	OpChat     Operation = "chat"
	OpMapping  Operation = "mapping"
	OpMerge    Operation = "merge"
	OpAnalysis Operation = "analysis"
)

// Thinking is the set of pending agent operations.
type Thinking struct {
	pending map[Operation]bool
}

// NewThinking creates an empty pending set.
func NewThinking() *Thinking {
	return &Thinking{pending: make(map[Operation]bool)}
}

// Begin marks an operation as pending.
func (t *Thinking) Begin(op Operation) {
	t.pending[op] = true
}

// End clears the given operations.
func (t *Thinking) End(ops ...Operation) {
	for _, op := range ops {
		delete(t.pending, op)
	}
}

// Clear empties the pending set. Used when the channel closes so the UI can
// never be stuck showing a thinking indicator for a reply that will not come.
func (t *Thinking) Clear() {
	t.pending = make(map[Operation]bool)
}

// Is reports whether the given operation is pending.
func (t *Thinking) Is(op Operation) bool {
	return t.pending[op]
}

// Any reports whether any operation is pending.
func (t *Thinking) Any() bool {
	return len(t.pending) > 0
}
