// Package scheduler implements C7: the four-phase tick loop that owns the
// seeded RNG, the order book, the agent accounts, and the decision worker
// pool, per spec §4.6.
package scheduler

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"fenrir/internal/account"
	"fenrir/internal/aggregator"
	"fenrir/internal/config"
	"fenrir/internal/engine"
	"fenrir/internal/eventlog"
	"fenrir/internal/fixedpoint"
	"fenrir/internal/script"
)

// InstrumentedAgent is implemented by agents that can report how many
// script instructions their last Decide call spent, letting the
// scheduler enforce config.TimeBudgetInstructionCount deterministically.
// Plain script.Agent implementations (e.g. ScriptedAgentFunc) simply
// don't satisfy this interface and are never budget-checked.
type InstrumentedAgent interface {
	script.Agent
	InstructionsExecuted() uint64
}

// Scheduler drives one simulation session end to end.
type Scheduler struct {
	cfg config.SessionConfig

	book *engine.OrderBook
	agg  *aggregator.Aggregator

	accounts []*account.Account
	agents   []script.Agent

	nextOrderID engine.OrderID
	orderOwner  map[engine.OrderID]uint32

	eventLog *eventlog.Writer
	logHash  hash.Hash

	budgetMu       sync.Mutex
	budgetExceeded map[uint32]uint64

	tainted      bool
	taintReasons []string

	perTickEventCounts []uint64

	lastPrice                                   engine.Price
	prevTickVolume, prevTakerBuy, prevTakerSell engine.Volume

	debug debugState
}

// New builds a Scheduler for one session. agents must align 1:1 by index
// with cfg.Agents; writer may be nil to skip the persisted event log.
func New(cfg config.SessionConfig, agents []script.Agent, writer *eventlog.Writer) (*Scheduler, error) {
	if len(agents) != len(cfg.Agents) {
		return nil, fmt.Errorf("scheduler: %d agents configured but %d agent implementations given", len(cfg.Agents), len(agents))
	}

	policy := engine.SelfMatchAllow
	if cfg.SelfMatchPolicy == config.SelfMatchSkip {
		policy = engine.SelfMatchSkip
	}

	// InitialCash lives in the same whole-currency-unit space as
	// account.Account.Cash (see fixedpoint.Cost's doc comment) — cast
	// directly, never through fixedpoint.ToMicros, which would scale it
	// up by Scale a second time.
	accounts := make([]*account.Account, len(cfg.Agents))
	for i, a := range cfg.Agents {
		accounts[i] = account.New(uint32(i), engine.Price(a.InitialCash), a.InitialStock)
	}

	return &Scheduler{
		cfg:            cfg,
		book:           engine.NewOrderBook(policy),
		agg:            aggregator.New(int(cfg.HistoryCapacity), int(cfg.TopKDepth)),
		accounts:       accounts,
		agents:         agents,
		nextOrderID:    1,
		orderOwner:     make(map[engine.OrderID]uint32),
		eventLog:       writer,
		logHash:        fnv.New128a(),
		budgetExceeded: make(map[uint32]uint64),
	}, nil
}

// RunSession builds a Scheduler and runs it to completion, per spec §6's
// `run_session(config) -> SessionReport` entry point.
func RunSession(cfg config.SessionConfig, agents []script.Agent, writer *eventlog.Writer) (*SessionReport, error) {
	s, err := New(cfg, agents, writer)
	if err != nil {
		return nil, err
	}
	return s.Run()
}

// Run executes every tick in order and returns the final SessionReport.
func (s *Scheduler) Run() (*SessionReport, error) {
	poolSize := s.cfg.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = runtime.GOMAXPROCS(0)
	}

	log.Info().Uint64("total_ticks", s.cfg.TotalTicks).Int("agents", len(s.agents)).
		Int("worker_pool_size", poolSize).Msg("session starting")

	for tick := uint64(0); tick < s.cfg.TotalTicks; tick++ {
		if err := s.runTick(tick, poolSize); err != nil {
			return nil, fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	if s.eventLog != nil {
		if err := s.eventLog.Close(); err != nil {
			return nil, fmt.Errorf("close event log: %w", err)
		}
	}

	log.Info().Bool("tainted", s.tainted).Msg("session complete")
	return s.report(), nil
}

// DebugSnapshot returns a read-only view of the session's current
// progress, safe to call from a goroutine other than the one in Run.
func (s *Scheduler) DebugSnapshot() DebugSnapshot {
	return s.debug.get()
}

func (s *Scheduler) runTick(tick uint64, poolSize int) error {
	tradingEnabled := tick >= s.cfg.WarmupTicks
	if tick == s.cfg.WarmupTicks {
		log.Info().Uint64("tick", tick).Msg("warm-up complete, trading enabled")
	}

	// Phase 1 — pre-calculation (serial): the snapshot reflects the
	// previous tick's finalized volume/indicator state.
	bids, asks := s.book.L2Snapshot(s.agg.TopKDepth())
	snap := s.agg.Snapshot(tick, s.cfg.TotalTicks, tradingEnabled, s.cfg.FeePPM,
		s.prevTickVolume, s.prevTakerBuy, s.prevTakerSell, bids, asks)
	market := script.NewMarketView(snap, s.cfg.FeePPM)

	// Phase 2 — decision (parallel).
	intents, err := s.decisionPhase(market, poolSize)
	if err != nil {
		return err
	}

	// Phase 3 — shuffle (serial), tick-local RNG derived from
	// (session_seed, tick), never threaded across ticks or workers.
	rng := newTickRNG(s.cfg.SessionSeed, tick)
	fisherYatesShuffle(intents, rng)

	// Phase 4 — execution (serial).
	tickVolume, takerBuy, takerSell, eventCount := s.executionPhase(tick, tradingEnabled, intents)
	s.perTickEventCounts = append(s.perTickEventCounts, eventCount)

	s.agg.Ingest(s.lastPrice, tickVolume)
	s.prevTickVolume, s.prevTakerBuy, s.prevTakerSell = tickVolume, takerBuy, takerSell

	s.debug.set(DebugSnapshot{
		Tick:           tick,
		TotalTicks:     s.cfg.TotalTicks,
		TradingEnabled: tradingEnabled,
		LiveOrderCount: s.book.LiveOrderCount(),
	})

	return nil
}

// decisionPhase fans Decide out across a fixed-size worker pool and
// collects results into a flat vector in canonical agent-id order,
// independent of completion order — the determinism anchor (spec §4.6).
func (s *Scheduler) decisionPhase(market script.MarketView, poolSize int) ([]intent, error) {
	perAgent := make([][]script.Decision, len(s.agents))

	sem := semaphore.NewWeighted(int64(poolSize))
	g, ctx := errgroup.WithContext(context.Background())

	for i := range s.agents {
		i := i
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			perAgent[i] = s.decideForAgent(i, market)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decision phase: %w", err)
	}

	flat := make([]intent, 0, len(s.agents))
	for i, decisions := range perAgent {
		for _, d := range decisions {
			flat = append(flat, intent{agentID: uint32(i), decision: d})
		}
	}
	return flat, nil
}

func (s *Scheduler) decideForAgent(i int, market script.MarketView) []script.Decision {
	av := script.NewAccountView(s.accounts[i], s.lastPrice, s.cfg.FeePPM)
	decisions := s.agents[i].Decide(market, av)

	if s.cfg.TimeBudgetPolicy != config.TimeBudgetInstructionCount {
		return decisions
	}
	instrumented, ok := s.agents[i].(InstrumentedAgent)
	if !ok || instrumented.InstructionsExecuted() <= s.cfg.InstructionBudget {
		return decisions
	}

	s.budgetMu.Lock()
	s.budgetExceeded[uint32(i)]++
	s.budgetMu.Unlock()
	log.Warn().Uint32("agent_id", uint32(i)).Msg("agent exceeded instruction budget; intents discarded")
	return nil
}

// executionPhase processes shuffled intents one at a time, settling every
// Trade against both legs' accounts, and returns this tick's aggregate
// volumes (for the next tick's snapshot) plus the number of events emitted.
func (s *Scheduler) executionPhase(tick uint64, tradingEnabled bool, intents []intent) (tickVolume, takerBuy, takerSell engine.Volume, eventCount uint64) {
	for _, in := range intents {
		events, takerAgentID, takerSide := s.executeIntent(tradingEnabled, in)
		for _, ev := range events {
			s.settleEvent(tick, ev, takerAgentID, takerSide)
			eventCount++
			if ev.Kind == engine.EventTrade {
				s.lastPrice = ev.Price
				tickVolume += ev.Amount
				if takerSide == engine.Bid {
					takerBuy += ev.Amount
				} else {
					takerSell += ev.Amount
				}
			}
		}
	}
	return tickVolume, takerBuy, takerSell, eventCount
}

// executeIntent turns one shuffled intent into book calls (or a
// TradingDisabled rejection during warm-up) and returns the events
// produced alongside the taker agent id/side needed to settle them.
func (s *Scheduler) executeIntent(tradingEnabled bool, in intent) ([]engine.MatchEvent, uint32, engine.Side) {
	d := in.decision

	if !tradingEnabled {
		var id engine.OrderID
		if d.Cancel != nil {
			id = engine.OrderID(*d.Cancel)
		}
		return []engine.MatchEvent{{Kind: engine.EventRejected, OrderID: id, Reason: engine.ReasonTradingDisabled}}, in.agentID, engine.Bid
	}

	if d.Cancel != nil {
		return []engine.MatchEvent{s.book.Cancel(engine.OrderID(*d.Cancel))}, in.agentID, engine.Bid
	}
	if d.IsNoOp() {
		return nil, in.agentID, engine.Bid
	}

	side := actionToSide(d.Action)
	order := engine.Order{
		ID:      s.nextOrderID,
		Price:   fixedpoint.ToMicros(d.Price),
		Amount:  engine.Volume(d.Amount),
		AgentID: in.agentID,
		Side:    side,
		Kind:    orderTypeToKind(d.OrderType),
	}
	s.orderOwner[order.ID] = in.agentID
	s.nextOrderID++

	events := s.book.Submit(order)
	s.updateTakerStatus(in.agentID, order.ID, d.Amount, events)
	return events, in.agentID, side
}

// updateTakerStatus sets the taker's last_order_status from how much of
// its requested amount was actually matched this call, per spec §6's
// {"Filled","Partial","Rejected","None"} enum. An order that simply rests
// untouched (Placed, no trade yet) leaves the prior status unchanged,
// since nothing conclusive has happened to it yet.
func (s *Scheduler) updateTakerStatus(agentID uint32, orderID engine.OrderID, requested uint64, events []engine.MatchEvent) {
	var filled uint64
	rejected := false
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventTrade:
			filled += uint64(ev.Amount)
		case engine.EventRejected:
			if ev.OrderID == orderID {
				rejected = true
			}
		}
	}
	acc := s.accounts[agentID]
	switch {
	case rejected && filled == 0:
		acc.LastStatus = account.StatusRejected
	case filled == requested && requested > 0:
		acc.LastStatus = account.StatusFilled
	case filled > 0:
		acc.LastStatus = account.StatusPartial
	}
}

// settleEvent applies a Trade's cash/position effects to both legs and
// records the event into the hash/event log. The maker's status is
// derived from whether its order is still live in the book immediately
// after the call, so it reflects the true post-trade state even across
// orders placed in earlier ticks; the taker's status is set separately by
// updateTakerStatus.
func (s *Scheduler) settleEvent(tick uint64, ev engine.MatchEvent, takerAgentID uint32, takerSide engine.Side) {
	if ev.Kind == engine.EventTrade {
		makerAgentID, ok := s.orderOwner[ev.MakerID]
		if !ok {
			s.tainted = true
			s.taintReasons = append(s.taintReasons, fmt.Sprintf("trade maker_id=%d has no known owner", ev.MakerID))
		} else {
			taker := s.accounts[takerAgentID]
			maker := s.accounts[makerAgentID]
			account.ApplyTrade(taker, maker, takerSide, ev.Price, ev.Amount, s.cfg.FeePPM)
			if s.book.IsLive(ev.MakerID) {
				maker.LastStatus = account.StatusPartial
			} else {
				maker.LastStatus = account.StatusFilled
			}
		}
	}
	s.hashEvent(tick, ev)
	if s.eventLog != nil {
		if err := s.eventLog.WriteEvent(tick, ev); err != nil {
			log.Error().Err(err).Msg("event log write failed")
		}
	}
}

// hashEvent folds one event into the session-wide FNV-1a digest used for
// the SessionReport's reproducibility hash (P8, S5).
func (s *Scheduler) hashEvent(tick uint64, ev engine.MatchEvent) {
	var b [51]byte
	b[0] = byte(ev.Kind)
	binary.BigEndian.PutUint64(b[1:9], tick)
	binary.BigEndian.PutUint64(b[9:17], uint64(ev.OrderID))
	binary.BigEndian.PutUint64(b[17:25], uint64(ev.MakerID))
	binary.BigEndian.PutUint64(b[25:33], uint64(ev.TakerID))
	binary.BigEndian.PutUint64(b[33:41], uint64(ev.Price))
	binary.BigEndian.PutUint64(b[41:49], uint64(ev.Amount))
	b[49] = byte(ev.Side)
	b[50] = byte(ev.Reason)
	s.logHash.Write(b[:])
}

func (s *Scheduler) report() *SessionReport {
	finalAccounts := make([]script.AccountView, len(s.accounts))
	for i, a := range s.accounts {
		finalAccounts[i] = script.NewAccountView(a, s.lastPrice, s.cfg.FeePPM)
	}

	var digest [16]byte
	copy(digest[:], s.logHash.Sum(nil))

	return &SessionReport{
		RunID:                uuid.New(),
		FinalAccounts:        finalAccounts,
		PerTickEventCounts:   s.perTickEventCounts,
		EventLogHash:         digest,
		Tainted:              s.tainted,
		TaintReasons:         s.taintReasons,
		BudgetExceededCounts: s.budgetExceeded,
	}
}
