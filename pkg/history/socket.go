package history

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
)

// DefaultBridgePath is where the browser script expects the bridge
// endpoint to be mounted.
const DefaultBridgePath = "/_wayfind/history"

// frameType tags the JSON frames exchanged with the browser.
type frameType string

const (
	// Client to server: the browser reports where it is, either on
	// connect or after user-driven navigation (link click, popstate).
	frameLocation frameType = "location"
	frameNavigate frameType = "navigate"

	// Server to client: the router moves the browser.
	framePush    frameType = "push"
	frameReplace frameType = "replace"
)

type frame struct {
	Type     frameType `json:"type"`
	Location string    `json:"location,omitempty"`
}

// Bridge is a History backed by browsers over WebSocket. Frames from any
// connected client move the shared current location and wake subscribers;
// Navigate and Replace broadcast history commands to every client.
type Bridge struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	current  Location
	subs     map[int]func(Location)
	nextSub  int
	upgrader websocket.Upgrader
	log      *slog.Logger

	// OnConnect and OnDisconnect, when set, observe clients arriving and
	// leaving. Set them before the bridge starts serving.
	OnConnect    func()
	OnDisconnect func()
}

var _ History = (*Bridge)(nil)

// NewBridge creates a bridge positioned at "/". A nil logger falls back
// to slog.Default().
func NewBridge(log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		clients: make(map[*websocket.Conn]bool),
		current: Location{Path: "/"},
		subs:    make(map[int]func(Location)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// ServeHTTP upgrades the connection and reads location frames until the
// client goes away.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := b.upgrader.Upgrade(w, req, nil)
	if err != nil {
		b.log.Warn("history bridge upgrade failed", slog.String("error", err.Error()))
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()

	if b.OnConnect != nil {
		b.OnConnect()
	}
	b.log.Debug("history bridge client connected", slog.String("remote", req.RemoteAddr))

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			break
		}
		switch f.Type {
		case frameLocation, frameNavigate:
			b.apply(Parse(f.Location))
		}
	}

	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()

	if b.OnDisconnect != nil {
		b.OnDisconnect()
	}
	b.log.Debug("history bridge client disconnected", slog.String("remote", req.RemoteAddr))
}

// Navigate pushes a new entry in every connected browser and locally.
func (b *Bridge) Navigate(location string) {
	b.broadcast(frame{Type: framePush, Location: location})
	b.apply(Parse(location))
}

// Replace swaps the current entry in every connected browser and locally.
func (b *Bridge) Replace(location string) {
	b.broadcast(frame{Type: frameReplace, Location: location})
	b.apply(Parse(location))
}

// Location returns the last known browser location.
func (b *Bridge) Location() Location {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Subscribe registers a listener for location changes.
func (b *Bridge) Subscribe(fn func(Location)) (cancel func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// ClientCount returns the number of connected browsers.
func (b *Bridge) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Close disconnects every client.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		conn.Close()
		delete(b.clients, conn)
	}
}

func (b *Bridge) apply(loc Location) {
	b.mu.Lock()
	b.current = loc

	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Location), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
}

func (b *Bridge) broadcast(f frame) {
	b.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		clients = append(clients, conn)
	}
	b.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.WriteJSON(f); err != nil {
			b.mu.Lock()
			delete(b.clients, conn)
			b.mu.Unlock()
			conn.Close()
		}
	}
}
