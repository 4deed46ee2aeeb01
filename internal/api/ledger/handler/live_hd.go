package ledgerHandler

import (
	"ExpenseTracker/internal/entity"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

// LiveWallets streams wallet snapshots over a WebSocket connection. The
// client receives the current wallets on connect and a fresh snapshot
// whenever a transaction or wallet mutation changes them.
func (h *LedgerHandler) LiveWallets(conn *websocket.Conn) {
	defer conn.Close()

	userData, ok := conn.Locals("user").(entity.UserLoginData)
	if !ok {
		h.log.Warn("Live wallets connection without user data, closing")
		return
	}

	h.log.Infof("Live wallets client connected for user %s", userData.ID)
	defer h.log.Infof("Live wallets client disconnected for user %s", userData.ID)

	c, cancel := context.WithCancel(context.Background())
	defer cancel()

	wallets, updates, unsubscribe, err := h.ledgerService.SubscribeWallets(c, userData.ID)
	if err != nil {
		h.log.Errorf("Error subscribing to wallet updates: %v", err)
		if writeErr := conn.WriteJSON(map[string]string{"error": "failed to subscribe"}); writeErr != nil {
			h.log.Errorf("Error sending error response: %v", writeErr)
		}
		return
	}
	defer unsubscribe()

	if err := conn.WriteJSON(wallets); err != nil {
		h.log.Errorf("Error writing initial snapshot: %v", err)
		return
	}

	conn.SetPingHandler(func(data string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	// Read pump. The client never sends data, we only watch for close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Errorf("Live wallets WebSocket error: %v", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-c.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}

			if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
				h.log.Errorf("Error setting write deadline: %v", err)
				return
			}

			if err := conn.WriteJSON(snapshot); err != nil {
				h.log.Errorf("Error writing wallet snapshot: %v", err)
				return
			}
		}
	}
}
