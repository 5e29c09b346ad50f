package display

import (
	"fmt"
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/vunf1/goalnotify/internal/model"
)

// Prompt dimensions.
const (
	promptWidth  = 200
	promptHeight = 160
)

// Prompt shows a borderless, always-on-top, draggable Yes/No dialog
// centered on screen and blocks the calling event loop until the window
// is destroyed, re-entering the loop with a nested glib.MainLoop.
// Returns true only if Yes was clicked; closing the window any other
// way returns false. Must be called on the GTK main loop thread.
func Prompt(app *gtk.Application, req *model.Request) bool {
	window := gtk.NewWindow()
	if app != nil {
		window.SetApplication(app)
	}
	window.SetDecorated(false)
	window.SetResizable(false)
	window.SetDefaultSize(promptWidth, promptHeight)
	window.SetSizeRequest(promptWidth, promptHeight)
	window.AddCSSClass("goalnotify-prompt")

	// Overlay layer keeps the prompt above everything; no anchors means
	// the compositor centers the surface on the output.
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(window, 0)
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeOnDemand)
	layershell.SetNamespace(window, "goalnotify-prompt")

	if bg := req.Options.BgColor; bg != "" {
		applyPromptBackground(window, req.ID, bg)
	}

	result := false

	// WindowHandle makes the whole surface a drag region.
	handle := gtk.NewWindowHandle()

	container := gtk.NewBox(gtk.OrientationVertical, 0)
	container.SetMarginTop(10)
	container.SetMarginBottom(10)
	container.SetMarginStart(10)
	container.SetMarginEnd(10)

	// Header: icon + title, aligned left.
	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	header.SetMarginBottom(10)

	iconLbl := gtk.NewLabel(req.Options.Icon)
	iconLbl.AddCSSClass("prompt-icon")
	header.Append(iconLbl)

	titleLbl := gtk.NewLabel(req.Title)
	titleLbl.AddCSSClass("prompt-title")
	header.Append(titleLbl)
	container.Append(header)

	// Message, centered and wrapped.
	msgLbl := gtk.NewLabel(req.Message)
	msgLbl.AddCSSClass("prompt-message")
	msgLbl.SetWrap(true)
	msgLbl.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	msgLbl.SetJustify(gtk.JustifyCenter)
	msgLbl.SetMaxWidthChars(maxMessageChars(promptWidth))
	msgLbl.SetMarginBottom(20)
	container.Append(msgLbl)

	// Yes / No row, centered.
	btnRow := gtk.NewBox(gtk.OrientationHorizontal, 10)
	btnRow.SetHAlign(gtk.AlignCenter)

	yesBtn := gtk.NewButtonWithLabel("Yes")
	yesBtn.AddCSSClass("suggested-action")
	yesBtn.ConnectClicked(func() {
		result = true
		window.Destroy()
	})
	btnRow.Append(yesBtn)

	noBtn := gtk.NewButtonWithLabel("No")
	noBtn.AddCSSClass("destructive-action")
	noBtn.ConnectClicked(func() {
		window.Destroy()
	})
	btnRow.Append(noBtn)
	container.Append(btnRow)

	handle.SetChild(container)
	window.SetChild(handle)

	// Nested loop quits when the window is destroyed, by button or
	// otherwise. The default-false result covers every other path.
	loop := glib.NewMainLoop(glib.MainContextDefault(), false)
	window.ConnectDestroy(func() {
		loop.Quit()
	})

	window.Present()
	loop.Run()

	return result
}

// applyPromptBackground overrides the default black background.
func applyPromptBackground(window *gtk.Window, id, color string) {
	cls := "prompt-" + strings.ToLower(id)
	window.AddCSSClass(cls)

	provider := gtk.NewCSSProvider()
	provider.LoadFromData(fmt.Sprintf(".%s { background-color: %s; }", cls, color))
	gtk.StyleContextAddProviderForDisplay(window.Display(), provider,
		uint(gtk.STYLE_PROVIDER_PRIORITY_APPLICATION))
}
