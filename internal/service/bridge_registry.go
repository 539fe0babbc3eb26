package service

import (
	"fmt"
	"sync"
	"time"
)

// BridgeRegistry hands out one SessionBridge per signed-in user so every
// request (and every tab) of an account shares the same in-memory mirror.
type BridgeRegistry struct {
	store         DocumentStore
	flushInterval time.Duration

	mu      sync.Mutex
	bridges map[uint]*SessionBridge
}

// NewBridgeRegistry constructs a registry over the given store. A
// non-positive flushInterval keeps the bridge default.
func NewBridgeRegistry(store DocumentStore, flushInterval time.Duration) *BridgeRegistry {
	return &BridgeRegistry{
		store:         store,
		flushInterval: flushInterval,
		bridges:       make(map[uint]*SessionBridge),
	}
}

// Acquire returns the user's bridge, starting one on first use.
func (r *BridgeRegistry) Acquire(userID uint, email string) (*SessionBridge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bridge, ok := r.bridges[userID]; ok {
		return bridge, nil
	}

	bridge := NewSessionBridge(r.store, userID, email)
	if r.flushInterval > 0 {
		bridge.SetFlushInterval(r.flushInterval)
	}
	if err := bridge.Start(); err != nil {
		return nil, fmt.Errorf("start session bridge: %w", err)
	}
	r.bridges[userID] = bridge
	return bridge, nil
}

// Get returns the bridge for a user with an active session, if any.
func (r *BridgeRegistry) Get(userID uint) (*SessionBridge, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bridge, ok := r.bridges[userID]
	return bridge, ok
}

// Release closes and forgets the user's bridge on logout.
func (r *BridgeRegistry) Release(userID uint) {
	r.mu.Lock()
	bridge, ok := r.bridges[userID]
	delete(r.bridges, userID)
	r.mu.Unlock()

	if ok {
		bridge.Close()
	}
}

// CloseAll shuts down every active bridge, used on server shutdown.
func (r *BridgeRegistry) CloseAll() {
	r.mu.Lock()
	bridges := make([]*SessionBridge, 0, len(r.bridges))
	for _, bridge := range r.bridges {
		bridges = append(bridges, bridge)
	}
	r.bridges = make(map[uint]*SessionBridge)
	r.mu.Unlock()

	for _, bridge := range bridges {
		bridge.Close()
	}
}
