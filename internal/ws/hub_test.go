package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgmodels "telepipe/pkg/models"

	"github.com/gorilla/websocket"
)

func TestNotifyVideoReachesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.NotifyVideo(pkgmodels.Video{ID: 7, Title: "Test", Size: 3})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event struct {
		Type string          `json:"type"`
		Data pkgmodels.Video `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Type != EventVideoCreated {
		t.Fatalf("expected %s, got %s", EventVideoCreated, event.Type)
	}
	if event.Data.ID != 7 || event.Data.Title != "Test" {
		t.Fatalf("unexpected payload %+v", event.Data)
	}
}

func TestBroadcastDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.NotifyVideo(pkgmodels.Video{ID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked")
	}
}
