package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by the renderer.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusErrored lipgloss.Style
	StatusSkipped lipgloss.Style
}

// NewStyles builds styles for a color profile. termenv.Ascii yields plain text.
func NewStyles(profile termenv.Profile) *Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	badge := r.NewStyle().Bold(true).Padding(0, 1)
	return &Styles{
		Header1: r.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12")),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),

		StatusSuccess: badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		StatusFailed:  badge.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")),
		StatusErrored: badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
		StatusSkipped: badge.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
	}
}

// Badge returns the badge style for a run status name.
func (s *Styles) Badge(status string) lipgloss.Style {
	switch status {
	case "passed":
		return s.StatusSuccess
	case "failed":
		return s.StatusFailed
	case "errored":
		return s.StatusErrored
	default:
		return s.StatusSkipped
	}
}
