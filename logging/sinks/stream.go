package sinks

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"interact-nearest/addon/logging"
)

const (
	streamClientBuffer = 64
	streamWriteTimeout = 5 * time.Second
)

// Stream fans events out to attached websocket clients so decisions
// can be watched live while the game runs. Slow clients are dropped;
// the sink never applies backpressure to the router.
type Stream struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*streamClient]struct{}
	closed  bool
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewStream() *Stream {
	return &Stream{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*streamClient]struct{}),
	}
}

// Handler returns the HTTP handler that upgrades tail connections.
func (s *Stream) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &streamClient{conn: conn, send: make(chan []byte, streamClientBuffer)}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.clients[client] = struct{}{}
		s.mu.Unlock()

		go s.writeLoop(client)
		go s.readLoop(client)
	})
}

func (s *Stream) Write(event logging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		select {
		case client.send <- data:
		default:
			delete(s.clients, client)
			client.shutdown()
		}
	}
	return nil
}

func (s *Stream) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for client := range s.clients {
		delete(s.clients, client)
		client.shutdown()
	}
	return nil
}

// ClientCount reports attached tails, for tests.
func (s *Stream) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Stream) writeLoop(client *streamClient) {
	for data := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(client)
			return
		}
	}
	client.conn.Close()
}

// readLoop only watches for the client hanging up.
func (s *Stream) readLoop(client *streamClient) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			s.drop(client)
			return
		}
	}
}

func (s *Stream) drop(client *streamClient) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
	client.shutdown()
}

func (c *streamClient) shutdown() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}
