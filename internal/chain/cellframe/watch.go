package cellframe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

// Keepalive timings for the tx-status watch socket, the same values the
// teacher's server/ws hub uses for its client connections.
const (
	watchPongWait   = 60 * time.Second
	watchPingPeriod = (watchPongWait * 9) / 10
)

type watchStatusMsg struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

// WatchTxStatus opens a WebSocket connection to wsURL, subscribes to status
// updates for hash, and streams decoded domain.TxStatus values on the
// returned channel until ctx is cancelled or the connection closes. It is a
// push-based alternative to polling `tx;dump`; no CLI subcommand calls it.
func WatchTxStatus(ctx context.Context, wsURL, hash string) (<-chan domain.TxStatus, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrIoError, wsURL, err)
	}

	sub, err := json.Marshal(map[string]string{"action": "subscribe", "hash": hash})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: subscribe: %v", domain.ErrIoError, err)
	}

	out := make(chan domain.TxStatus, 1)
	conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(watchPongWait))
		return nil
	})

	go watchPump(ctx, conn, hash, out)
	return out, nil
}

func watchPump(ctx context.Context, conn *websocket.Conn, hash string, out chan<- domain.TxStatus) {
	defer close(out)
	defer conn.Close()

	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg watchStatusMsg
			if err := json.Unmarshal(data, &msg); err != nil || msg.Hash != hash {
				continue
			}
			select {
			case out <- domain.TxStatus(msg.Status):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWaitDefault))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

const writeWaitDefault = 10 * time.Second
