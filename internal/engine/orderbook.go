package engine

import (
	"github.com/tidwall/btree"
)

// PriceLevel is a single price's resting queue, keyed by Price in the
// book's two btrees. Stored by pointer so in-place mutation of the queue
// (pop/push) never requires re-inserting into the tree.
type PriceLevel struct {
	Price Price
	Queue LevelQueue
}

// PriceLevels is the ordered map from Price to PriceLevel used for both
// sides of the book (bids ordered by descending price, asks ascending).
type PriceLevels = btree.BTreeG[*PriceLevel]

type indexEntry struct {
	Price  Price
	Side   Side
	Amount Volume
}

// OrderBook is a single-instrument limit order book: two price-indexed
// ordered maps plus an order index for O(1) live-order lookup, shadow
// cancellation, and ghost-order garbage collection.
type OrderBook struct {
	bids *PriceLevels // best bid = max key
	asks *PriceLevels // best ask = min key

	index map[OrderID]indexEntry

	selfMatchPolicy SelfMatchPolicy
}

// NewOrderBook constructs an empty book under the given self-match policy.
func NewOrderBook(policy SelfMatchPolicy) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price > b.Price // descending: best bid first
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price < b.Price // ascending: best ask first
	})
	return &OrderBook{
		bids:            bids,
		asks:            asks,
		index:           make(map[OrderID]indexEntry),
		selfMatchPolicy: policy,
	}
}

func sideBooks(book *OrderBook, side Side) (own, opposite *PriceLevels) {
	if side == Bid {
		return book.bids, book.asks
	}
	return book.asks, book.bids
}

func removeLevelIfEmpty(levels *PriceLevels, level *PriceLevel) {
	if level.Queue.IsEmpty() {
		levels.Delete(level)
	}
}

// Submit accepts a Limit or Market order and returns every event produced
// while processing it, in the order they occurred.
func (b *OrderBook) Submit(order Order) []MatchEvent {
	events := make([]MatchEvent, 0, 4)

	if order.Amount == 0 {
		return append(events, rejectedEvent(order.ID, ReasonZeroSize))
	}

	taker := order
	_, opposite := sideBooks(b, taker.Side)

	for taker.Amount > 0 {
		level, ok := opposite.Min()
		if !ok {
			break
		}

		if !crosses(taker, level.Price) {
			break
		}

		maker, found, skipEvents := b.scanLiveMaker(level, taker)
		events = append(events, skipEvents...)
		if !found {
			removeLevelIfEmpty(opposite, level)
			continue
		}

		q := taker.Amount
		if maker.Amount < q {
			q = maker.Amount
		}
		events = append(events, tradeEvent(maker.ID, taker.ID, maker.Price, q))

		taker.Amount -= q
		maker.Amount -= q

		if maker.Amount > 0 {
			level.Queue.PushFront(maker)
			b.index[maker.ID] = indexEntry{Price: maker.Price, Side: maker.Side, Amount: maker.Amount}
		} else {
			delete(b.index, maker.ID)
		}

		removeLevelIfEmpty(opposite, level)
	}

	if taker.Amount > 0 {
		switch taker.Kind {
		case Limit:
			b.postToBook(taker)
			events = append(events, placedEvent(taker.ID, taker.Side))
		default: // Market: IOC, discard remainder
			events = append(events, rejectedEvent(taker.ID, ReasonNoLiquidity))
		}
	}

	return events
}

// crosses reports whether a taker at the given side/kind/price crosses the
// opposite book's best price.
func crosses(taker Order, bestOpposite Price) bool {
	if taker.Kind == Market {
		return true
	}
	if taker.Side == Bid {
		return taker.Price >= bestOpposite
	}
	return taker.Price <= bestOpposite
}

// scanLiveMaker pops makers from the front of level until a live one is
// found (discarding ghosts, and skipping self-matches under SelfMatchSkip),
// or the level empties. A ghost's amount was already deducted from
// total_volume at cancel time, but PopFront unconditionally deducts it
// again on the way out of the queue, so discarding a ghost here restores
// that amount to keep total_volume equal to the sum of live orders only.
func (b *OrderBook) scanLiveMaker(level *PriceLevel, taker Order) (Order, bool, []MatchEvent) {
	var skipEvents []MatchEvent
	for {
		maker, ok := level.Queue.PopFront()
		if !ok {
			return Order{}, false, skipEvents
		}
		if _, live := b.index[maker.ID]; !live {
			level.Queue.totalVolume += maker.Amount
			continue // ghost: discard silently, compensating the double deduction
		}
		if b.selfMatchPolicy == SelfMatchSkip && maker.AgentID == taker.AgentID {
			delete(b.index, maker.ID)
			skipEvents = append(skipEvents, selfTradeSkippedEvent(maker.ID, taker.ID))
			continue
		}
		return maker, true, skipEvents
	}
}

// postToBook inserts a resting limit order into its side's book, creating
// the price level if this is the first order at that price.
func (b *OrderBook) postToBook(order Order) {
	own, _ := sideBooks(b, order.Side)
	level, ok := own.Get(&PriceLevel{Price: order.Price})
	if !ok {
		level = &PriceLevel{Price: order.Price}
		own.Set(level)
	}
	level.Queue.PushBack(order)
	b.index[order.ID] = indexEntry{Price: order.Price, Side: order.Side, Amount: order.Amount}
}

// Cancel performs an O(1) shadow cancel: the index entry is removed and the
// level's total_volume decremented immediately, but the queue slot is left
// in place as a ghost, to be discarded lazily by the next matching pass
// over that level.
func (b *OrderBook) Cancel(id OrderID) MatchEvent {
	entry, ok := b.index[id]
	if !ok {
		return rejectedEvent(id, ReasonNotFound)
	}
	delete(b.index, id)

	own, _ := sideBooks(b, entry.Side)
	if level, ok := own.Get(&PriceLevel{Price: entry.Price}); ok {
		level.Queue.totalVolume -= entry.Amount
	}
	return cancelledEvent(id)
}

// LevelView is a single (price, aggregate volume) pair as surfaced by an
// L2 snapshot.
type LevelView struct {
	Price  Price
	Volume Volume
}

// L2Snapshot returns up to depth levels on each side, best price first.
// Levels whose cached volume is zero (a fully shadow-cancelled level
// awaiting GC) are filtered out defensively.
func (b *OrderBook) L2Snapshot(depth int) (bids []LevelView, asks []LevelView) {
	bids = collectLevels(b.bids, depth)
	asks = collectLevels(b.asks, depth)
	return
}

func collectLevels(levels *PriceLevels, depth int) []LevelView {
	out := make([]LevelView, 0, depth)
	levels.Scan(func(level *PriceLevel) bool {
		if len(out) >= depth {
			return false
		}
		if level.Queue.TotalVolume() == 0 {
			return true
		}
		out = append(out, LevelView{Price: level.Price, Volume: level.Queue.TotalVolume()})
		return true
	})
	return out
}

// BestBid returns the best (highest) live bid price, if any.
func (b *OrderBook) BestBid() (Price, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return 0, false
	}
	return level.Price, true
}

// BestAsk returns the best (lowest) live ask price, if any.
func (b *OrderBook) BestAsk() (Price, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return 0, false
	}
	return level.Price, true
}

// LiveOrderCount returns the number of orders currently indexed as live.
func (b *OrderBook) LiveOrderCount() int {
	return len(b.index)
}

// IsLive reports whether id is still indexed as a live (unfilled,
// uncancelled) order. Used by settlement to tell a fully-filled maker
// apart from one still partially resting after a trade.
func (b *OrderBook) IsLive(id OrderID) bool {
	_, ok := b.index[id]
	return ok
}
