package wsbar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/routesync/pkg/addressbar"
)

func TestBarBridge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bar, err := Accept(w, r, "http://app.test", nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer bar.Close()

		bar.OnChange(func(e *addressbar.ChangeEvent) error {
			if strings.HasSuffix(e.URL, "/go") {
				e.PreventDefault()
				bar.Push("/redirected")
			}
			return nil
		})
		bar.Serve(context.Background())
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() Message {
		t.Helper()
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if err := conn.WriteJSON(Message{Type: TypeChange, URL: "/foo"}); err != nil {
		t.Fatal(err)
	}
	if got := read(); got.Type != TypeAck || got.URL != "http://app.test/foo" || got.Prevented {
		t.Errorf("ack = %+v", got)
	}

	if err := conn.WriteJSON(Message{Type: TypeChange, URL: "http://app.test/go"}); err != nil {
		t.Fatal(err)
	}
	if got := read(); got.Type != TypePush || got.URL != "http://app.test/redirected" {
		t.Errorf("push = %+v", got)
	}
	if got := read(); got.Type != TypeAck || got.URL != "http://app.test/redirected" || !got.Prevented {
		t.Errorf("ack = %+v", got)
	}

	if err := conn.WriteJSON(Message{Type: TypeChange, URL: "http://evil.test/steal"}); err != nil {
		t.Fatal(err)
	}
	if got := read(); got.Type != TypeError || got.Error == "" {
		t.Errorf("error = %+v", got)
	}
}
