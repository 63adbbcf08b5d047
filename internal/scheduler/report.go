package scheduler

import (
	"sync"

	"github.com/google/uuid"

	"fenrir/internal/script"
)

// SessionReport is the scheduler's single output (spec §6): the final
// per-agent account views, per-tick event counts, and a hash of the
// emitted event stream for reproducibility checks across runs and
// worker-pool sizes (P8).
type SessionReport struct {
	RunID uuid.UUID

	FinalAccounts      []script.AccountView
	PerTickEventCounts []uint64

	// EventLogHash is an FNV-1a 128-bit digest over every MatchEvent
	// emitted during the session, in execution order, prefixed by tick.
	EventLogHash [16]byte

	// Tainted is set if an internal invariant violation was detected and
	// the scheduler recorded a diagnostic instead of aborting (spec §7).
	Tainted      bool
	TaintReasons []string

	// BudgetExceededCounts counts, per agent id, how many ticks that
	// agent's decision was discarded for exceeding its instruction budget.
	BudgetExceededCounts map[uint32]uint64
}

// DebugSnapshot is a read-only view of an in-progress session, safe to
// read from a goroutine other than the one driving Run.
type DebugSnapshot struct {
	Tick           uint64
	TotalTicks     uint64
	TradingEnabled bool
	LiveOrderCount int
}

type debugState struct {
	mu   sync.Mutex
	snap DebugSnapshot
}

func (d *debugState) set(s DebugSnapshot) {
	d.mu.Lock()
	d.snap = s
	d.mu.Unlock()
}

func (d *debugState) get() DebugSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}
