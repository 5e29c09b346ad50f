// Package queue implements the cross-process notification queue.
//
// Producers enqueue toast requests over a Unix domain socket carrying
// newline-framed JSON envelopes. The renderer daemon owns the listening
// side and delivers requests to its handlers in receive order, so the
// queue is FIFO per producer connection.
package queue

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/vunf1/goalnotify/internal/model"
)

// Operations carried by an Envelope.
const (
	// OpNotify enqueues a toast request. Fire-and-forget, no reply.
	OpNotify = "notify"
	// OpPrompt shows a modal Yes/No dialog and replies with the answer.
	OpPrompt = "prompt"
	// OpStatus replies with daemon counters.
	OpStatus = "status"
)

// SocketEnv overrides the socket path when set.
const SocketEnv = "GOALNOTIFY_SOCKET"

// maxLineSize bounds a single request line to guard against unbounded reads.
const maxLineSize = 1024 * 1024

// Envelope is one framed message from a producer to the renderer.
type Envelope struct {
	Op      string         `json:"op"`
	Request *model.Request `json:"request,omitempty"`
}

// Reply is the renderer's answer to a reply-bearing operation.
type Reply struct {
	OK     bool        `json:"ok"`
	Error  string      `json:"error,omitempty"`
	Result bool        `json:"result,omitempty"` // Prompt answer
	Status *StatusInfo `json:"status,omitempty"`
}

// StatusInfo describes the running daemon.
type StatusInfo struct {
	Active    int    `json:"active"`     // Currently visible toasts
	Served    int    `json:"served"`     // Requests displayed since start
	StartedAt int64  `json:"started_at"` // Unix seconds
	Version   string `json:"version"`
}

// SocketPath returns the queue socket path. The GOALNOTIFY_SOCKET
// environment variable wins, then the explicit override, then the
// user runtime directory.
func SocketPath(override string) string {
	if p := os.Getenv(SocketEnv); p != "" {
		return p
	}
	if override != "" {
		return override
	}
	runtimeDir := xdg.RuntimeDir
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return filepath.Join(runtimeDir, "goalnotify", "notify.sock")
}
