// Package style holds the palette and glyphs shared by the log handler and
// the cache reports.
package style

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette.
var (
	Accent = lipgloss.Color("#0EA5E9")
	Muted  = lipgloss.Color("#667085")
	Fresh  = lipgloss.Color("#22A06B")
	Broken = lipgloss.Color("#D93025")
	Stale  = lipgloss.Color("#F59E0B")
)

// Glyphs for record and log states.
const (
	Cached    = "✓"
	Corrupt   = "✗"
	Attention = "!"
	Absent    = "○"
)

// Text styles.
var (
	Heading = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	Label   = lipgloss.NewStyle().Foreground(Muted)
	Value   = lipgloss.NewStyle().Bold(true)
	Success = lipgloss.NewStyle().Foreground(Fresh)
	Warning = lipgloss.NewStyle().Foreground(Stale)
	Failure = lipgloss.NewStyle().Foreground(Broken)
)

// Profile returns the color profile for terminal output.
// NO_COLOR forces plain text; otherwise the environment decides.
func Profile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Renderer returns a lipgloss renderer for w using Profile.
// A nil w renders to stderr. Its Output carries the same profile, so raw
// termenv styling and lipgloss styles agree.
func Renderer(w io.Writer) *lipgloss.Renderer {
	if w == nil {
		w = os.Stderr
	}
	p := Profile()
	r := lipgloss.NewRenderer(w, termenv.WithProfile(p), termenv.WithTTY(true))
	r.SetColorProfile(p)
	return r
}
