package state

import "sync"

// KitchenState is the online/offline flag for one kitchen identity. It is
// set from stream events, from a fetch-on-login reconciliation, or from an
// explicit user toggle.
type KitchenState struct {
	mu     sync.RWMutex
	online bool
}

func NewKitchenState() *KitchenState {
	return &KitchenState{}
}

func (k *KitchenState) Set(online bool) {
	k.mu.Lock()
	k.online = online
	k.mu.Unlock()
}

func (k *KitchenState) Online() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.online
}
