package event

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// PanicHandler is called when a handler panics.
type PanicHandler func(ev any, subscriptionID string, recovered any)

// ErrorHandler is called when a handler returns an error.
type ErrorHandler func(err *HandlerError)

type busConfig struct {
	panicHandler PanicHandler
	errorHandler ErrorHandler
}

func defaultBusConfig() busConfig {
	return busConfig{}
}

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the handler invoked when a subscriber returns an error.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the handler priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets an event filter; events for which it returns false are skipped.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// Once makes the subscription cancel itself after the first delivered event.
func Once() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}
