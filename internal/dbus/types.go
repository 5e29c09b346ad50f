// Package dbus bridges org.freedesktop.Notifications calls onto the
// goalnotify toast queue.
package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/vunf1/goalnotify/internal/model"
)

// Notification holds the raw parameters of one Notify method call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// BackgroundColor extracts the background color hint
// (notify-send -h string:bgcolor:#RRGGBB).
func (n *Notification) BackgroundColor() string {
	return n.stringHint("bgcolor")
}

// IconGlyph extracts the x-goalnotify-icon hint carrying the toast
// glyph. D-Bus app_icon names don't map onto glyphs, so senders that
// want a specific glyph pass it as a hint.
func (n *Notification) IconGlyph() string {
	return n.stringHint("x-goalnotify-icon")
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	if v, ok := n.Hints["suppress-sound"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

func (n *Notification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// ToRequest converts the D-Bus call into a toast request. Summary maps
// to the title, body to the message, a positive expire timeout to the
// hold duration, the suppress-sound hint to a silent toast. Unset
// fields get the usual toast defaults.
func (n *Notification) ToRequest() (*model.Request, error) {
	opts := model.Options{
		Icon:    n.IconGlyph(),
		BgColor: n.BackgroundColor(),
		Silent:  n.SuppressSound(),
	}
	if n.ExpireTimeout > 0 {
		opts.Duration = int(n.ExpireTimeout)
	}

	return model.NewRequest(n.Summary, n.Body, opts)
}

// ServerCapabilities lists the capabilities advertised by the bridge.
var ServerCapabilities = []string{
	"body", // Body text is rendered below the title
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "goalnotifyd",
		Vendor:      "goalnotify",
		Version:     "0.0.1",
		SpecVersion: "1.2",
	}
}
