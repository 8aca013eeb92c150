package inspect

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gekko3d/particles"
	"github.com/gorilla/websocket"
)

const (
	sendQueue    = 4
	writeTimeout = 2 * time.Second
	commandQueue = 16
)

// Commands understood from clients. Anything else is logged and ignored.
const (
	CommandReset = "reset"
	CommandPause = "pause"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server fans published frames out to every connected websocket client.
// Publish never blocks: a client that falls behind misses frames.
// Commands from clients are queued until the host drains them on its own
// thread, so the System is never touched from a connection goroutine.
type Server struct {
	log particles.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	closed  bool

	commands chan string
	http     *http.Server
}

func NewServer(log particles.Logger) *Server {
	if log == nil {
		log = particles.NewNopLogger()
	}
	return &Server{
		log:      log,
		clients:  make(map[*client]struct{}),
		commands: make(chan string, commandQueue),
	}
}

// Handler serves the websocket on /ws and the latest frame as JSON on /frame.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	mux.HandleFunc("/frame", s.frameHandler)
	return mux
}

// ListenAndServe blocks until the server is closed. It returns
// http.ErrServerClosed when Close has already been called.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	s.http = &http.Server{Addr: addr, Handler: s.Handler()}
	srv := s.http
	s.mu.Unlock()

	s.log.Infof("inspector listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) frameHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			s.log.Warnf("websocket upgrade: %v", err)
		}
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendQueue)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Debugf("inspector client %s connected", r.RemoteAddr)

	go s.writeLoop(c)
	go s.readLoop(c)
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.log.Debugf("inspector write: %v", err)
			s.drop(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) readLoop(c *client) {
	defer s.drop(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnf("inspector read: %v", err)
			}
			return
		}
		cmd := string(msg)
		switch cmd {
		case CommandReset, CommandPause:
			select {
			case s.commands <- cmd:
			default:
				s.log.Warnf("inspector command queue full, dropped %q", cmd)
			}
		default:
			s.log.Debugf("inspector ignored %q", cmd)
		}
	}
}

// drop unregisters c and closes its queue. Safe to call more than once.
func (s *Server) drop(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

// Publish encodes f once and queues it for every client.
func (s *Server) Publish(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

// Drain hands every queued client command to fn without blocking.
func (s *Server) Drain(fn func(cmd string)) {
	for {
		select {
		case cmd := <-s.commands:
			fn(cmd)
		default:
			return
		}
	}
}

// Clients is the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client and stops ListenAndServe.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
