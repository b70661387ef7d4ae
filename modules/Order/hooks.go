package Order

// Hooks receives order events after they are committed.
type Hooks interface {
	OrderCreated(order *Order)
	OrderStatusChanged(order *Order, oldStatus Status)
	OrderDeleted(snapshot Snapshot)
}

type noHooks struct{}

func (noHooks) OrderCreated(*Order)               {}
func (noHooks) OrderStatusChanged(*Order, Status) {}
func (noHooks) OrderDeleted(Snapshot)             {}

var hooks Hooks = noHooks{}

// SetHooks installs the event receiver. Passing nil disables events.
func SetHooks(h Hooks) {
	if h == nil {
		h = noHooks{}
	}
	hooks = h
}
