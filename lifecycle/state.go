package lifecycle

import "devfeed/types"

// Phase is the controller state tag
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Snapshot is an immutable copy of the controller state handed to
// observers. Seq grows with every change so late deliveries can be told
// apart from fresh ones.
type Snapshot struct {
	Seq    uint64
	Phase  Phase
	Bundle types.FeedBundle
	Err    error
	// Index is the visible section, meaningful while Ready
	Index int
}

// Ready reports whether a bundle is available
func (s Snapshot) Ready() bool { return s.Phase == PhaseReady }
