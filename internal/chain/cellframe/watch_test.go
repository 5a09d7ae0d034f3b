package cellframe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nocdem/dna-messenger/walletcore/internal/domain"
)

var testUpgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}

func TestWatchTxStatusStreamsMatchingUpdates(t *testing.T) {
	const wantHash = "abc123"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Read the subscribe message, then push an update for wantHash and
		// one for an unrelated hash the client must ignore.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		unrelated, _ := json.Marshal(watchStatusMsg{Hash: "zzz", Status: string(domain.TxStatusPending)})
		conn.WriteMessage(websocket.TextMessage, unrelated)

		matching, _ := json.Marshal(watchStatusMsg{Hash: wantHash, Status: string(domain.TxStatusSuccess)})
		conn.WriteMessage(websocket.TextMessage, matching)

		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	updates, err := WatchTxStatus(ctx, wsURL, wantHash)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case status, ok := <-updates:
		if !ok {
			t.Fatalf("update channel closed before any status arrived")
		}
		if status != domain.TxStatusSuccess {
			t.Fatalf("status = %q, want %q", status, domain.TxStatusSuccess)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a status update")
	}
}

func TestWatchTxStatusReturnsErrorOnBadURL(t *testing.T) {
	_, err := WatchTxStatus(context.Background(), "ws://127.0.0.1:1", "anyhash")
	if err == nil {
		t.Fatalf("expected a dial error against an unreachable endpoint")
	}
}
