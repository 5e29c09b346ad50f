package queue

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/vunf1/goalnotify/internal/model"
)

// ErrNotInitialized is returned by Notify when Init has not been called
// in this process.
var ErrNotInitialized = errors.New("notification queue not initialized")

// procProducer is the process-wide queue handle set by Init.
var (
	procMu       sync.RWMutex
	procProducer *Producer
)

// Init assigns the shared queue handle for this process. Call once per
// process before Notify. There is no guard against re-initialization;
// the last write wins.
func Init(p *Producer) {
	procMu.Lock()
	procProducer = p
	procMu.Unlock()
}

// Notify enqueues a toast request on the process-wide queue. It fails
// with ErrNotInitialized if Init has not run in this process. A nil
// opts uses the defaults (5s hold, info glyph, renderer background).
func Notify(title, message string, opts *model.Options) error {
	procMu.RLock()
	p := procProducer
	procMu.RUnlock()

	if p == nil {
		return ErrNotInitialized
	}
	return p.Notify(title, message, opts)
}

// Producer is the sending end of the notification queue. It is safe for
// concurrent use; writes from one Producer are delivered in order.
type Producer struct {
	mu   sync.Mutex
	conn net.Conn
	rd   *bufio.Reader
}

// Dial connects a Producer to the renderer's queue socket.
func Dial(path string) (*Producer, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to notification daemon: %w", err)
	}
	return &Producer{
		conn: conn,
		rd:   bufio.NewReader(conn),
	}, nil
}

// Close closes the connection to the renderer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.Close()
}

// Notify enqueues a toast request. Fire-and-forget: the renderer does
// not acknowledge notify operations.
func (p *Producer) Notify(title, message string, opts *model.Options) error {
	var o model.Options
	if opts != nil {
		o = *opts
	}

	req, err := model.NewRequest(title, message, o)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.send(&Envelope{Op: OpNotify, Request: req})
}

// Prompt shows a modal Yes/No dialog on the renderer and blocks until
// the user answers. Returns true only if Yes was clicked.
func (p *Producer) Prompt(title, message string, opts *model.Options) (bool, error) {
	var o model.Options
	if opts != nil {
		o = *opts
	}

	req, err := model.NewRequest(title, message, o)
	if err != nil {
		return false, err
	}
	if err := req.Validate(); err != nil {
		return false, err
	}

	reply, err := p.roundTrip(&Envelope{Op: OpPrompt, Request: req})
	if err != nil {
		return false, err
	}
	return reply.Result, nil
}

// Status asks the renderer for its counters.
func (p *Producer) Status() (*StatusInfo, error) {
	reply, err := p.roundTrip(&Envelope{Op: OpStatus})
	if err != nil {
		return nil, err
	}
	if reply.Status == nil {
		return nil, fmt.Errorf("daemon returned no status")
	}
	return reply.Status, nil
}

// roundTrip sends a reply-bearing envelope and reads the matching reply.
// The lock is held across write and read so concurrent round trips on
// one connection cannot interleave replies.
func (p *Producer) roundTrip(env *Envelope) (*Reply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.send(env); err != nil {
		return nil, err
	}

	line, err := p.rd.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read daemon reply: %w", err)
	}

	var reply Reply
	if err := json.Unmarshal(line, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode daemon reply: %w", err)
	}
	if !reply.OK {
		return nil, fmt.Errorf("daemon rejected %s request: %s", env.Op, reply.Error)
	}
	return &reply, nil
}

// send writes one framed envelope. Caller must hold the lock.
func (p *Producer) send(env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	data = append(data, '\n')

	if _, err := p.conn.Write(data); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}
