// Package display renders toast popups and the Yes/No prompt dialog
// using GTK4 and layer-shell windows.
package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/vunf1/goalnotify/internal/config"
	"github.com/vunf1/goalnotify/internal/model"
)

// Manager owns all toast windows and the active-toast stack.
//
// Every mutating method must run on the GTK main loop (producers hop
// over via glib.IdleAdd), so the stack and toast map are touched from a
// single thread and need no locking. ActiveCount is the exception: it
// reads an atomic mirror of the stack size and may be called from any
// goroutine.
type Manager struct {
	app    *gtk.Application
	config *config.DaemonConfig
	logger *slog.Logger

	stack  *Stack
	toasts map[string]*Toast
}

// NewManager creates a display manager.
func NewManager(app *gtk.Application, cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	return &Manager{
		app:    app,
		config: cfg,
		logger: logger,
		stack:  NewStack(cfg.Toast.Margin, cfg.Toast.Gap),
		toasts: make(map[string]*Toast),
	}
}

// Start verifies a display is available and installs the base stylesheet.
func (m *Manager) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromData(baseCSS)
	gtk.StyleContextAddProviderForDisplay(display, provider,
		uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))

	m.logger.Info("display manager started")
	return nil
}

// Stop destroys all remaining toast windows.
func (m *Manager) Stop() {
	for id, toast := range m.toasts {
		toast.destroy()
		delete(m.toasts, id)
	}
	m.logger.Info("display manager stopped")
}

// Show displays a toast for the request. The slot is claimed before the
// animation starts so a toast arriving a tick later stacks above this
// one. The slot is released only when the fade-out completes; a window
// destroyed externally keeps its slot for the life of the process.
func (m *Manager) Show(req *model.Request) error {
	offset := m.stack.Push(req.ID, m.config.Toast.Height)

	toast, err := newToast(m.app, req, m.config, offset)
	if err != nil {
		m.stack.Remove(req.ID)
		return &DisplayError{Message: "failed to create toast window", Cause: err}
	}

	toast.onFaded = func() {
		m.stack.Remove(req.ID)
		delete(m.toasts, req.ID)
		m.logger.Debug("toast faded out", "id", req.ID, "active", m.stack.Len())
	}

	m.toasts[req.ID] = toast
	toast.Show()

	m.logger.Debug("showed toast",
		"id", req.ID,
		"title", req.Title,
		"offset", offset,
		"duration_ms", req.Options.Duration,
		"active", m.stack.Len(),
	)

	return nil
}

// ActiveCount returns the number of toasts in the active stack. Safe to
// call from any goroutine; status queries arrive on transport goroutines.
func (m *Manager) ActiveCount() int {
	return m.stack.Len()
}

// UpdateConfig replaces the configuration for subsequently shown toasts.
// Stack geometry of already-visible toasts is left alone.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	m.config = cfg
	m.logger.Debug("display manager config updated")
}

// baseCSS styles toasts and prompts: black background, white text.
const baseCSS = `
window.goalnotify-toast, window.goalnotify-prompt {
	background-color: black;
	border-radius: 10px;
}
window.goalnotify-toast label, window.goalnotify-prompt label {
	color: white;
}
.toast-icon, .prompt-icon {
	font-size: 24px;
}
.toast-title {
	font-size: 14px;
}
.toast-message, .prompt-message {
	font-size: 12px;
}
.prompt-title {
	font-size: 16px;
	font-weight: bold;
}
`

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
