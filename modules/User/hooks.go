package User

// Hooks receives account events after they are committed.
type Hooks interface {
	UserCreated(user *UserModel)
}

type noHooks struct{}

func (noHooks) UserCreated(*UserModel) {}

var hooks Hooks = noHooks{}

// SetHooks installs the event receiver. Passing nil disables events.
func SetHooks(h Hooks) {
	if h == nil {
		h = noHooks{}
	}
	hooks = h
}
