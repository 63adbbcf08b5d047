package engine

// EventKind distinguishes the shapes a MatchEvent can take: the four
// outcome kinds plus the informational EventSelfTradeSkipped.
type EventKind uint8

const (
	EventTrade EventKind = iota
	EventPlaced
	EventCancelled
	EventRejected
	// EventSelfTradeSkipped is informational only, emitted in addition to
	// (never instead of) the taker's own Trade/Placed/Rejected events when
	// SelfMatchPolicy is Skip and a maker was bypassed as a self-match.
	EventSelfTradeSkipped
)

func (k EventKind) String() string {
	switch k {
	case EventTrade:
		return "Trade"
	case EventPlaced:
		return "Placed"
	case EventCancelled:
		return "Cancelled"
	case EventRejected:
		return "Rejected"
	case EventSelfTradeSkipped:
		return "SelfTradeSkipped"
	default:
		return "Unknown"
	}
}

// RejectReason enumerates why an order or cancel was rejected.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonZeroSize
	ReasonNotFound
	ReasonNoLiquidity
	ReasonTradingDisabled
	ReasonSelfTrade
)

func (r RejectReason) String() string {
	switch r {
	case ReasonZeroSize:
		return "ZeroSize"
	case ReasonNotFound:
		return "NotFound"
	case ReasonNoLiquidity:
		return "NoLiquidity"
	case ReasonTradingDisabled:
		return "TradingDisabled"
	case ReasonSelfTrade:
		return "SelfTrade"
	default:
		return "None"
	}
}

// MatchEvent is a value record describing one thing that happened during a
// single Submit/Cancel call, in the order it occurred. Settlement consumes
// these in emission order.
type MatchEvent struct {
	Kind    EventKind
	OrderID OrderID
	MakerID OrderID
	TakerID OrderID
	Price   Price
	Amount  Volume
	Side    Side // placed order's side; set on Placed events only
	Reason  RejectReason
}

func tradeEvent(makerID, takerID OrderID, price Price, amount Volume) MatchEvent {
	return MatchEvent{Kind: EventTrade, MakerID: makerID, TakerID: takerID, Price: price, Amount: amount}
}

func placedEvent(id OrderID, side Side) MatchEvent {
	return MatchEvent{Kind: EventPlaced, OrderID: id, Side: side}
}

func cancelledEvent(id OrderID) MatchEvent {
	return MatchEvent{Kind: EventCancelled, OrderID: id}
}

func rejectedEvent(id OrderID, reason RejectReason) MatchEvent {
	return MatchEvent{Kind: EventRejected, OrderID: id, Reason: reason}
}

func selfTradeSkippedEvent(makerID, takerID OrderID) MatchEvent {
	return MatchEvent{Kind: EventSelfTradeSkipped, MakerID: makerID, TakerID: takerID, Reason: ReasonSelfTrade}
}
