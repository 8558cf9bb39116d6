package state

import "sync"

// opState tracks the request lifecycle of every named operation in a slice:
// a loading flag, the last error message, an optional sticky success flag,
// and a monotonically increasing sequence token. Handlers that settle with a
// stale token no-op, so a slow response can never overwrite the state left
// by a newer dispatch.
type opState struct {
	mu      sync.Mutex
	loading map[string]bool
	errs    map[string]string
	success map[string]bool
	seq     map[string]uint64
}

func newOpState() *opState {
	return &opState{
		loading: make(map[string]bool),
		errs:    make(map[string]string),
		success: make(map[string]bool),
		seq:     make(map[string]uint64),
	}
}

// begin marks op pending, clears its previous error, and returns the
// sequence token the eventual settle must present.
func (o *opState) begin(op string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq[op]++
	o.loading[op] = true
	delete(o.errs, op)
	return o.seq[op]
}

// settleOK clears loading for op. Returns false when the token is stale, in
// which case the caller must discard its payload.
func (o *opState) settleOK(op string, seq uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq[op] != seq {
		return false
	}
	o.loading[op] = false
	return true
}

// settleErr clears loading and records the error message for op. Stale
// tokens no-op and return false.
func (o *opState) settleErr(op string, seq uint64, msg string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seq[op] != seq {
		return false
	}
	o.loading[op] = false
	o.errs[op] = msg
	return true
}

// markSuccess sets the sticky success flag for op. It does not auto-reset;
// the consumer clears it explicitly via clearSuccess.
func (o *opState) markSuccess(op string) {
	o.mu.Lock()
	o.success[op] = true
	o.mu.Unlock()
}

func (o *opState) clearSuccess(op string) {
	o.mu.Lock()
	delete(o.success, op)
	o.mu.Unlock()
}

func (o *opState) Loading(op string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading[op]
}

// Err returns the last recorded error message for op, or "" when none.
func (o *opState) Err(op string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errs[op]
}

func (o *opState) Success(op string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.success[op]
}
