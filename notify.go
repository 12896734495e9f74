package opts

// Listener receives the new value of the option it subscribed to.
type Listener func(id OptionID, value Value)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Subscribe registers fn for changes to id and returns a function that
// removes it. Listeners run synchronously inside Set, in registration order.
// Subscribing to an identifier outside the catalogue is a no-op.
func (m *Model) Subscribe(id OptionID, fn Listener) (unsubscribe func()) {
	if !id.Valid() || fn == nil {
		return func() {}
	}
	m.nextListener++
	handle := m.nextListener
	m.listeners[id] = append(m.listeners[id], listenerEntry{id: handle, fn: fn})
	return func() {
		entries := m.listeners[id]
		for i, entry := range entries {
			if entry.id == handle {
				m.listeners[id] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) notify(id OptionID, value Value) {
	// Copy so listeners may unsubscribe while being notified.
	entries := append([]listenerEntry(nil), m.listeners[id]...)
	for _, entry := range entries {
		entry.fn(id, value)
	}
}
