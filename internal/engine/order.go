package engine

// Order is an immutable-after-creation record except for Amount, which is
// mutated in place as the order is partially filled. Field order is fixed
// so that sizeof(Order) == 32 (two trailing padding bytes allowed): ID,
// Price, and Amount are 8 bytes apiece, AgentID is 4 bytes, Side and Kind
// are single bytes, giving two orders per half cache line on a vector scan.
type Order struct {
	ID      OrderID
	Price   Price // ignored for Market orders
	Amount  Volume
	AgentID uint32
	Side    Side
	Kind    Kind
}
