package queue

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/vunf1/goalnotify/internal/model"
)

// NotifyHandler is called for each dequeued toast request.
type NotifyHandler func(req *model.Request)

// PromptHandler is called for a prompt request and returns the answer.
// It blocks until the user dismisses the dialog.
type PromptHandler func(req *model.Request) bool

// StatusHandler returns the daemon's current counters.
type StatusHandler func() StatusInfo

// Server is the receiving end of the notification queue. Each accepted
// connection is drained by its own goroutine in receive order, which
// preserves per-producer FIFO delivery.
type Server struct {
	path   string
	logger *slog.Logger

	notifyHandler NotifyHandler
	promptHandler PromptHandler
	statusHandler StatusHandler

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	running  bool
	wg       sync.WaitGroup
}

// NewServer creates a Server listening on the given socket path.
func NewServer(path string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		path:   path,
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// SetNotifyHandler sets the handler called for each toast request.
func (s *Server) SetNotifyHandler(h NotifyHandler) {
	s.notifyHandler = h
}

// SetPromptHandler sets the handler called for prompt requests.
func (s *Server) SetPromptHandler(h PromptHandler) {
	s.promptHandler = h
}

// SetStatusHandler sets the handler for status requests.
func (s *Server) SetStatusHandler(h StatusHandler) {
	s.statusHandler = h
}

// Start binds the socket and begins accepting producers.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("queue server already running")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	// A stale socket from a crashed daemon blocks the bind.
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}
	s.listener = listener
	s.running = true

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("queue server started", "socket", s.path)
	return nil
}

// Stop closes the listener and all producer connections.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	listener := s.listener
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if listener != nil {
		_ = listener.Close()
	}
	for _, c := range conns {
		_ = c.Close()
	}
	s.wg.Wait()

	_ = os.Remove(s.path)
	s.logger.Info("queue server stopped")
	return nil
}

// acceptLoop accepts producer connections until the listener closes.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if running {
				s.logger.Warn("accept failed", "error", err)
				continue
			}
			return
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// serveConn drains one producer connection sequentially.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			s.logger.Warn("dropping malformed request", "error", err)
			continue
		}

		s.dispatch(conn, &env)
	}

	if err := scanner.Err(); err != nil {
		s.logger.Debug("producer connection closed", "error", err)
	}
}

// dispatch routes one envelope to its handler and writes a reply for
// reply-bearing operations.
func (s *Server) dispatch(conn net.Conn, env *Envelope) {
	switch env.Op {
	case OpNotify:
		if env.Request == nil {
			s.logger.Warn("notify request without payload")
			return
		}
		env.Request.Options.Normalize()
		if err := env.Request.Validate(); err != nil {
			s.logger.Warn("dropping invalid request", "id", env.Request.ID, "error", err)
			return
		}
		if s.notifyHandler != nil {
			s.notifyHandler(env.Request)
		}

	case OpPrompt:
		if env.Request == nil {
			s.writeReply(conn, &Reply{Error: "prompt request without payload"})
			return
		}
		env.Request.Options.Normalize()
		if err := env.Request.Validate(); err != nil {
			s.logger.Warn("rejecting invalid prompt", "id", env.Request.ID, "error", err)
			s.writeReply(conn, &Reply{Error: err.Error()})
			return
		}
		if s.promptHandler == nil {
			s.writeReply(conn, &Reply{Error: "prompts not supported"})
			return
		}
		result := s.promptHandler(env.Request)
		s.writeReply(conn, &Reply{OK: true, Result: result})

	case OpStatus:
		if s.statusHandler == nil {
			s.writeReply(conn, &Reply{Error: "status not supported"})
			return
		}
		status := s.statusHandler()
		s.writeReply(conn, &Reply{OK: true, Status: &status})

	default:
		s.logger.Warn("unknown queue operation", "op", env.Op)
		s.writeReply(conn, &Reply{Error: "unknown operation: " + env.Op})
	}
}

// writeReply writes one framed reply line.
func (s *Server) writeReply(conn net.Conn, reply *Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		s.logger.Warn("failed to encode reply", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("failed to write reply", "error", err)
	}
}
