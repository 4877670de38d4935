// Package event is a small typed publish/subscribe bus. Handlers run
// synchronously on the publishing goroutine, in subscription order.
package event

import "reflect"

type Bus struct {
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *Bus, handler func(T)) {
	if bus == nil || handler == nil {
		return
	}
	if bus.handlers == nil {
		bus.handlers = make(map[reflect.Type][]any)
	}
	t := reflect.TypeFor[T]()
	bus.handlers[t] = append(bus.handlers[t], handler)
}

// Publish delivers evt to every handler of type T and returns how many ran.
func Publish[T any](bus *Bus, evt T) int {
	if bus == nil {
		return 0
	}
	hs := bus.handlers[reflect.TypeFor[T]()]
	for _, h := range hs {
		h.(func(T))(evt)
	}
	return len(hs)
}
