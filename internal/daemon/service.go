// Package daemon wires the queue transports to the display manager and
// tracks renderer counters.
package daemon

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/vunf1/goalnotify/internal/audio"
	"github.com/vunf1/goalnotify/internal/display"
	"github.com/vunf1/goalnotify/internal/model"
	"github.com/vunf1/goalnotify/internal/queue"
)

// Service routes dequeued requests onto the GTK main loop and answers
// status queries. Requests may arrive on any transport goroutine; the
// display manager only ever runs on the main loop.
type Service struct {
	app     *gtk.Application
	manager *display.Manager
	audio   *audio.Player
	logger  *slog.Logger

	version   string
	startedAt time.Time
	served    atomic.Int64

	chimeMu sync.RWMutex
	chime   string
}

// NewService creates the wiring service.
func NewService(app *gtk.Application, manager *display.Manager, player *audio.Player, version string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		app:       app,
		manager:   manager,
		audio:     player,
		logger:    logger,
		version:   version,
		startedAt: time.Now(),
	}
}

// SetChime sets the sound file played when a toast appears. Empty
// disables the chime.
func (s *Service) SetChime(path string) {
	s.chimeMu.Lock()
	s.chime = path
	s.chimeMu.Unlock()
}

// HandleNotify schedules a toast on the GTK main loop. Safe to call
// from any goroutine.
func (s *Service) HandleNotify(req *model.Request) {
	s.served.Add(1)
	if !req.Options.Silent {
		s.playChime()
	}

	glib.IdleAdd(func() {
		if err := s.manager.Show(req); err != nil {
			s.logger.Error("failed to show toast", "id", req.ID, "error", err)
		}
	})
}

// HandlePrompt runs a modal prompt on the GTK main loop and blocks the
// calling goroutine until the user answers.
func (s *Service) HandlePrompt(req *model.Request) bool {
	resultCh := make(chan bool, 1)
	glib.IdleAdd(func() {
		resultCh <- display.Prompt(s.app, req)
	})
	return <-resultCh
}

// HandleStatus reports the renderer counters.
func (s *Service) HandleStatus() queue.StatusInfo {
	return queue.StatusInfo{
		Active:    s.manager.ActiveCount(),
		Served:    int(s.served.Load()),
		StartedAt: s.startedAt.Unix(),
		Version:   s.version,
	}
}

// playChime plays the configured chime, if any.
func (s *Service) playChime() {
	if s.audio == nil {
		return
	}

	s.chimeMu.RLock()
	chime := s.chime
	s.chimeMu.RUnlock()
	if chime == "" {
		return
	}

	go func() {
		if err := s.audio.Play(chime); err != nil {
			s.logger.Debug("failed to play chime", "path", chime, "error", err)
		}
	}()
}
