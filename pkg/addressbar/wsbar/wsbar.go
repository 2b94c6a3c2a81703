// Package wsbar bridges a browser address bar to a server-side router over
// a WebSocket.
//
// The browser reports navigation with change messages; the server answers
// every change with an ack and sends push/replace messages whenever the
// router writes the URL. Events are dispatched from the single goroutine
// running Serve, so listeners never run concurrently.
package wsbar

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/routesync/pkg/addressbar"
	"github.com/vango-dev/routesync/pkg/routepath"
)

// MessageType is the type of a bridge message.
type MessageType string

const (
	TypeChange  MessageType = "change"
	TypePush    MessageType = "push"
	TypeReplace MessageType = "replace"
	TypeAck     MessageType = "ack"
	TypeError   MessageType = "error"
)

// Message is exchanged in both directions as JSON text frames.
type Message struct {
	Type      MessageType `json:"type"`
	URL       string      `json:"url,omitempty"`
	Prevented bool        `json:"prevented,omitempty"`
	Error     string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Bar is an addressbar.Addressbar mirrored to a browser.
type Bar struct {
	conn   *websocket.Conn
	mem    *addressbar.Memory
	logger *slog.Logger

	writeMu sync.Mutex
}

var _ addressbar.Addressbar = (*Bar)(nil)

// New wraps an established connection. The bar starts at origin + "/".
func New(conn *websocket.Conn, origin string, logger *slog.Logger) *Bar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bar{
		conn:   conn,
		mem:    addressbar.NewMemory(origin),
		logger: logger.With("component", "wsbar"),
	}
}

// Accept upgrades an HTTP request and returns a Bar for the connection.
// The origin is taken from the request when empty.
func Accept(w http.ResponseWriter, r *http.Request, origin string, logger *slog.Logger) (*Bar, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	if origin == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		origin = scheme + "://" + r.Host
	}
	return New(conn, origin, logger), nil
}

func (b *Bar) Value() string    { return b.mem.Value() }
func (b *Bar) Origin() string   { return b.mem.Origin() }
func (b *Bar) Pathname() string { return b.mem.Pathname() }

// OnChange subscribes to navigation reported by the browser.
func (b *Bar) OnChange(l addressbar.Listener) func() {
	return b.mem.OnChange(l)
}

// Push records the URL and tells the browser to push it.
func (b *Bar) Push(u string) {
	b.mem.Push(u)
	b.send(Message{Type: TypePush, URL: b.mem.Value()})
}

// Replace records the URL and tells the browser to replace it.
func (b *Bar) Replace(u string) {
	b.mem.Replace(u)
	b.send(Message{Type: TypeReplace, URL: b.mem.Value()})
}

// Serve reads browser messages until the connection closes or ctx is
// done. A clean close returns nil.
func (b *Bar) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.conn.Close()
		case <-done:
		}
	}()

	for {
		var msg Message
		if err := b.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch msg.Type {
		case TypeChange:
			target, err := routepath.Validate(msg.URL, b.mem.Origin())
			if err != nil {
				b.logger.Warn("rejected change", "url", msg.URL, "error", err)
				b.send(Message{Type: TypeError, URL: msg.URL, Error: err.Error()})
				continue
			}
			prevented, err := b.mem.Emit(target)
			if err != nil {
				b.logger.Warn("change failed", "url", msg.URL, "error", err)
				b.send(Message{Type: TypeError, URL: msg.URL, Error: err.Error()})
				continue
			}
			b.send(Message{Type: TypeAck, URL: b.mem.Value(), Prevented: prevented})
		default:
			b.logger.Debug("ignoring message", "type", msg.Type)
		}
	}
}

// Close closes the connection.
func (b *Bar) Close() error {
	return b.conn.Close()
}

func (b *Bar) send(msg Message) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(msg); err != nil {
		b.logger.Warn("write failed", "type", msg.Type, "error", err)
	}
}

// ClientScript keeps the browser address bar in sync with a Bar served at
// the given path. It is injected by the debug server.
const ClientScript = `
<script>
(function() {
    'use strict';

    var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(protocol + '//' + location.host + '/ws');

    function change(url) {
        ws.send(JSON.stringify({ type: 'change', url: url }));
    }

    ws.onopen = function() {
        change(location.href);
    };

    ws.onmessage = function(e) {
        var msg;
        try {
            msg = JSON.parse(e.data);
        } catch (err) {
            return;
        }

        switch (msg.type) {
            case 'push':
                history.pushState(null, '', msg.url);
                break;
            case 'replace':
                history.replaceState(null, '', msg.url);
                break;
            case 'ack':
                if (msg.prevented && msg.url && msg.url !== location.href) {
                    history.pushState(null, '', msg.url);
                }
                break;
            case 'error':
                console.error('[routesync]', msg.error);
                break;
        }
    };

    window.addEventListener('popstate', function() {
        change(location.href);
    });

    document.addEventListener('click', function(e) {
        var a = e.target.closest && e.target.closest('a[href]');
        if (!a || a.origin !== location.origin) {
            return;
        }
        e.preventDefault();
        change(a.href);
    });
})();
</script>
`
