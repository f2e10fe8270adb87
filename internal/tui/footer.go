package tui

// renderFooter renders the key binding footer at full terminal width: a
// brief hint, or every binding when help is toggled on.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	text := "? for help"
	if app.showHelp {
		text = helpText
	}
	if app.refreshThrottled {
		text = "refresh throttled  " + text
	}
	return StyleDim.Width(width).Render(text)
}
