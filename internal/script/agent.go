package script

// Agent is the interface the scheduler's decision phase calls for every
// agent each tick: an immutable market view, and exclusive access to the
// agent's own account view. A real embedded-language binding would
// implement this by calling into a compiled script; ScriptedAgentFunc
// implements it directly in Go for tests and examples.
type Agent interface {
	Decide(market MarketView, account AccountView) []Decision
}

// ScriptedAgentFunc adapts a plain Go closure to the Agent interface, so
// the scheduler is exercisable end-to-end without a real script engine.
type ScriptedAgentFunc func(market MarketView, account AccountView) []Decision

func (f ScriptedAgentFunc) Decide(market MarketView, account AccountView) []Decision {
	return f(market, account)
}
