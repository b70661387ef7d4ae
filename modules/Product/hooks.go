package Product

// Hooks receives product events after they are committed.
type Hooks interface {
	ProductCreated(product *Product)
	ProductUpdated(old, updated *Product)
}

type noHooks struct{}

func (noHooks) ProductCreated(*Product)          {}
func (noHooks) ProductUpdated(*Product, *Product) {}

var hooks Hooks = noHooks{}

// SetHooks installs the event receiver. Passing nil disables events.
func SetHooks(h Hooks) {
	if h == nil {
		h = noHooks{}
	}
	hooks = h
}
