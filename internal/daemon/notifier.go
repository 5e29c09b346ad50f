package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vunf1/goalnotify/internal/model"
)

// InternalNotifier raises toasts about daemon events (startup, config
// reloads) through the normal display path, rate-limited per event key
// to prevent toast floods.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	notifyHandler func(req *model.Request)

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetNotifyHandler sets the function used to raise the toast. This
// should be the same handler the queue server uses.
func (n *InternalNotifier) SetNotifyHandler(handler func(req *model.Request)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifyHandler = handler
}

// SetEnabled enables or disables internal toasts.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Notify raises an internal toast unless the same key fired within the
// rate-limit window.
func (n *InternalNotifier) Notify(key, title, message, icon string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}
	if n.notifyHandler == nil {
		n.logger.Debug("internal toast skipped: no handler", "title", title)
		return
	}

	if lastTime, ok := n.lastNotifyTime[key]; ok {
		if time.Since(lastTime) < n.minInterval {
			n.logger.Debug("internal toast rate-limited", "key", key, "title", title)
			return
		}
	}
	n.lastNotifyTime[key] = time.Now()

	req, err := model.NewRequest(title, message, model.Options{Icon: icon})
	if err != nil {
		n.logger.Warn("failed to build internal toast", "error", err)
		return
	}

	n.logger.Debug("raising internal toast", "key", key, "title", title)
	n.notifyHandler(req)
}

// NotifyStartup announces that the daemon is running.
func (n *InternalNotifier) NotifyStartup(version string) {
	n.Notify("startup", "goalnotifyd started",
		"Notification daemon v"+version+" is now running.", "ℹ️")
}

// NotifyConfigReloaded announces a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded",
		"goalnotifyd configuration has been successfully reloaded.", "ℹ️")
}

// NotifyConfigError reports a failed config reload.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error",
		"Failed to reload configuration: "+err.Error(), "⚠️")
}
