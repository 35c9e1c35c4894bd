package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess = lipgloss.Color("#00D26A") // green: success
	ColorWarning = lipgloss.Color("#FFB800") // yellow: warning
	ColorError   = lipgloss.Color("#FF4444") // red: error
	ColorAddress = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue   = lipgloss.Color("#FFFFFF") // white bold: token amounts
	ColorMeta    = lipgloss.Color("#555555") // dim gray: metadata
	ColorChain   = lipgloss.Color("#9B5DE5") // purple: network names, spinner
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true).Underline(true)
	StyleBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMeta).Padding(0, 1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a network name.
func ChainName(c string) string { return StyleChain.Render(c) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
