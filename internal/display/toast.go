package display

import (
	"fmt"
	"strings"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/vunf1/goalnotify/internal/config"
	"github.com/vunf1/goalnotify/internal/model"
)

// glibScheduler schedules fade steps on the GTK main loop.
type glibScheduler struct{}

func (glibScheduler) After(d time.Duration, fn func()) Handle {
	return Handle(glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		fn()
		return false // one-shot; the fader reschedules itself
	}))
}

func (glibScheduler) Cancel(h Handle) {
	glib.SourceRemove(glib.SourceHandle(h))
}

// Toast is one borderless, always-on-top notification window that fades
// in, holds, and fades out.
type Toast struct {
	window *gtk.Window
	fader  *fader
	id     string

	destroyed bool
	onFaded   func() // Set by the manager before Show
}

// newToast builds the toast window anchored bottom-right with the given
// offset from the bottom edge. Initial opacity is 0.
func newToast(app *gtk.Application, req *model.Request, cfg *config.DaemonConfig, offset int) (*Toast, error) {
	t := &Toast{id: req.ID}

	t.window = gtk.NewWindow()
	if app != nil {
		t.window.SetApplication(app)
	}
	t.window.SetDecorated(false)
	t.window.SetResizable(false)
	t.window.SetDefaultSize(cfg.Toast.Width, cfg.Toast.Height)
	t.window.SetSizeRequest(cfg.Toast.Width, cfg.Toast.Height)
	t.window.SetOpacity(0)
	t.window.AddCSSClass("goalnotify-toast")

	layershell.InitForWindow(t.window)
	layershell.SetLayer(t.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(t.window, 0)
	layershell.SetKeyboardMode(t.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(t.window, "goalnotify-toast")
	layershell.SetAnchor(t.window, layershell.LayerShellEdgeBottom, true)
	layershell.SetAnchor(t.window, layershell.LayerShellEdgeRight, true)
	layershell.SetMargin(t.window, layershell.LayerShellEdgeRight, cfg.Toast.Margin)
	layershell.SetMargin(t.window, layershell.LayerShellEdgeBottom, offset)

	t.buildContent(req, cfg)

	if bg := req.Options.BgColor; bg != "" {
		t.applyBackground(bg)
	}

	t.fader = newFader(
		glibScheduler{},
		cfg.Toast.FadeStep,
		cfg.Toast.FadeInterval.Duration(),
		req.Options.DurationTime(),
		func(opacity float64) {
			if !t.destroyed {
				t.window.SetOpacity(opacity)
			}
		},
		func() bool { return !t.destroyed },
		func() {
			if t.onFaded != nil {
				t.onFaded()
			}
			t.destroy()
		},
	)

	// Early destruction (app shutdown, compositor) must cancel every
	// pending fade step so no callback fires on a dead window.
	t.window.ConnectDestroy(func() {
		t.destroyed = true
		t.fader.Cancel()
	})

	return t, nil
}

// buildContent lays out icon glyph left, bold title above wrapped message.
func (t *Toast) buildContent(req *model.Request, cfg *config.DaemonConfig) {
	row := gtk.NewBox(gtk.OrientationHorizontal, 10)
	row.AddCSSClass("toast-row")
	row.SetMarginTop(10)
	row.SetMarginBottom(10)
	row.SetMarginStart(10)
	row.SetMarginEnd(10)

	iconLbl := gtk.NewLabel(req.Options.Icon)
	iconLbl.AddCSSClass("toast-icon")
	iconLbl.SetVAlign(gtk.AlignCenter)
	row.Append(iconLbl)

	col := gtk.NewBox(gtk.OrientationVertical, 2)
	col.SetHExpand(true)

	titleLbl := gtk.NewLabel("")
	titleLbl.SetMarkup("<b>" + escapeMarkup(req.Title) + "</b>")
	titleLbl.AddCSSClass("toast-title")
	titleLbl.SetXAlign(0)
	titleLbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	col.Append(titleLbl)

	msgLbl := gtk.NewLabel(req.Message)
	msgLbl.AddCSSClass("toast-message")
	msgLbl.SetXAlign(0)
	msgLbl.SetWrap(true)
	msgLbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	msgLbl.SetMaxWidthChars(maxMessageChars(cfg.Toast.Width))
	col.Append(msgLbl)

	row.Append(col)
	t.window.SetChild(row)
}

// applyBackground overrides the default black background for this window.
func (t *Toast) applyBackground(color string) {
	cls := "toast-" + strings.ToLower(t.id)
	t.window.AddCSSClass(cls)

	provider := gtk.NewCSSProvider()
	provider.LoadFromData(fmt.Sprintf(".%s { background-color: %s; }", cls, color))
	gtk.StyleContextAddProviderForDisplay(t.window.Display(), provider,
		uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
}

// Show presents the window and starts the fade-in.
func (t *Toast) Show() {
	t.window.Present()
	t.fader.Start()
}

// destroy tears down the window after a completed fade-out.
func (t *Toast) destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.window.Destroy()
}

// markupEscaper escapes the characters Pango markup treats specially.
var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}

// maxMessageChars approximates a wrap width for the message label.
func maxMessageChars(width int) int {
	chars := width / 8
	if chars < 10 {
		chars = 10
	}
	return chars
}
