package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the TUI renderer.
type Color uint8

// Palette used by the stage and HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorSlate // platform body, about #415a77
	ColorGold  // player body, about #ffe066
)
