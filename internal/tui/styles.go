package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorGreen      = lipgloss.Color("#10b981")
	colorYellow     = lipgloss.Color("#f59e0b")
	colorRed        = lipgloss.Color("#ef4444")
	colorGray       = lipgloss.Color("#6b7280")
	colorBlue       = lipgloss.Color("#3b82f6")
	colorCyan       = lipgloss.Color("#06b6d4")
	colorPurple     = lipgloss.Color("#8b5cf6")
	colorIndigo     = lipgloss.Color("#6366f1")
	colorOrange     = lipgloss.Color("#f97316")
	colorWhite      = lipgloss.Color("#f8fafc")
	colorDark       = lipgloss.Color("#1e293b")
	colorAlt        = lipgloss.Color("#0f172a")
	colorSelectedBg = lipgloss.Color("#334155")
)

// Connection indicator styles.
var (
	StyleLive    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	StyleStale   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	StyleWaiting = lipgloss.NewStyle().Foreground(colorGray)
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleOverviewCard is a single stat card in the overview bar.
var StyleOverviewCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0).
	Align(lipgloss.Center)

// Login form styles.
var (
	StyleLoginBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorIndigo).
			Padding(1, 3)

	StyleLoginTitle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	StyleLabel      = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// Tab bar styles.
var (
	StyleTabActive   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorIndigo).Padding(0, 1)
	StyleTabInactive = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
)

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
)

// Named color styles for table cell coloring.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)
