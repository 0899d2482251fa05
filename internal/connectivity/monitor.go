// Package connectivity tracks network reachability for the submission pipeline.
package connectivity

import (
	"sync"

	"github.com/harvestlane/contactsync/internal/logging"
)

// State represents network reachability.
type State string

const (
	StateOnline  State = "online"
	StateOffline State = "offline"
)

// Listener is invoked once per observed state transition.
type Listener func(State)

// Monitor is the single source of truth for "is the network usable".
// Consecutive identical platform signals are de-duplicated, so listeners
// see edge transitions only. An unknown initial state defaults to offline:
// queuing a submission is always safer than losing it.
type Monitor struct {
	mu        sync.RWMutex
	state     State
	listeners []Listener
}

// NewMonitor creates a Monitor in the offline state.
func NewMonitor() *Monitor {
	return &Monitor{state: StateOffline}
}

// NewMonitorWithState creates a Monitor with a known initial state.
func NewMonitorWithState(initial State) *Monitor {
	if initial != StateOnline {
		initial = StateOffline
	}
	return &Monitor{state: initial}
}

// Current returns the last-known state.
func (m *Monitor) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Online reports whether the last-known state is online.
func (m *Monitor) Online() bool {
	return m.Current() == StateOnline
}

// OnChange registers a listener for state transitions.
func (m *Monitor) OnChange(listener Listener) {
	if listener == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Set records a new platform signal. Listeners fire only when the state
// actually changes; duplicate signals are dropped.
func (m *Monitor) Set(state State) {
	if state != StateOnline {
		state = StateOffline
	}

	m.mu.Lock()
	if m.state == state {
		m.mu.Unlock()
		return
	}
	m.state = state
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	logging.Info("connectivity changed", map[string]interface{}{"state": string(state)})

	for _, listener := range listeners {
		listener(state)
	}
}

// SetOnline is a convenience wrapper over Set.
func (m *Monitor) SetOnline(online bool) {
	if online {
		m.Set(StateOnline)
	} else {
		m.Set(StateOffline)
	}
}
