package livefeed

import (
	"sync"

	"ExpenseTracker/internal/entity"
)

// IFeed is a push-based subscription over a user's wallet list. Subscribers
// receive the full current snapshot whenever any of the user's wallets or
// transactions change, until the returned cancel func is called.
type IFeed interface {
	Subscribe(userID string) (<-chan []entity.Wallet, func())
	Publish(userID string, wallets []entity.Wallet)
}

type hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[int]chan []entity.Wallet
	nextID      int
}

func New() IFeed {
	return &hub{
		subscribers: make(map[string]map[int]chan []entity.Wallet),
	}
}

func (h *hub) Subscribe(userID string) (<-chan []entity.Wallet, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	// Buffer of one: a slow consumer only ever sees the newest snapshot.
	ch := make(chan []entity.Wallet, 1)

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[int]chan []entity.Wallet)
	}
	h.subscribers[userID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subs, ok := h.subscribers[userID]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
		}
	}

	return ch, cancel
}

func (h *hub) Publish(userID string, wallets []entity.Wallet) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[userID] {
		// Replace a pending stale snapshot instead of blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- wallets:
		default:
		}
	}
}
