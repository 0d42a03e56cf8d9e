// driver/callbacks.go
package driver

import (
	"sync"

	"github.com/optomech/aptdrive/apt"
)

// ErrorCallback receives device-reported error/event notifications.
// msgID is the message type which triggered the error (0 if unknown),
// code is the numeric error code and notes a human-readable description.
// Callbacks run synchronously on the engine goroutine; keep them short.
type ErrorCallback func(source apt.EndPoint, msgID uint16, code int, notes string)

// CallbackHandle identifies one registration. Registering the same
// function twice yields two handles, each invoked and removable
// independently. The zero handle is never issued.
type CallbackHandle uint64

type callbackRegistry struct {
	mu   sync.Mutex
	next CallbackHandle
	fns  map[CallbackHandle]ErrorCallback
}

// register stores fn and returns its handle, or 0 when fn is nil.
func (c *callbackRegistry) register(fn ErrorCallback) CallbackHandle {
	if fn == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fns == nil {
		c.fns = make(map[CallbackHandle]ErrorCallback)
	}
	c.next++
	c.fns[c.next] = fn
	return c.next
}

// unregister removes a handle, reporting whether it was known.
func (c *callbackRegistry) unregister(h CallbackHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.fns[h]; !ok {
		return false
	}
	delete(c.fns, h)
	return true
}

// snapshot returns the currently registered callbacks. The engine
// iterates the snapshot so a callback mutating the registry cannot
// corrupt the fan-out.
func (c *callbackRegistry) snapshot() []ErrorCallback {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ErrorCallback, 0, len(c.fns))
	for _, fn := range c.fns {
		out = append(out, fn)
	}
	return out
}
