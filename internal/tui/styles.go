package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/safetalk/internal/avatar"
	"github.com/soyeahso/safetalk/internal/domain"
)

// Palette
var (
	Ink     = lipgloss.Color("#262626")
	Muted   = lipgloss.Color("#8e8e8e")
	Accent  = lipgloss.Color("#e1306c")
	Calm    = lipgloss.Color("#3897f0")
	Safe    = lipgloss.Color("#58c322")
	Warning = lipgloss.Color("#ed4956")
	Bubble  = lipgloss.Color("#efefef")
)

// Styles groups every style the screens use.
type Styles struct {
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Card       lipgloss.Style
	Sender     lipgloss.Style
	Meta       lipgloss.Style
	Masked     lipgloss.Style
	SafeMark   lipgloss.Style
	Liked      lipgloss.Style
	Them       lipgloss.Style
	Me         lipgloss.Style
	Avatar     lipgloss.Style
	Choice     lipgloss.Style
	Blocked    lipgloss.Style
	Error      lipgloss.Style
	Title      lipgloss.Style
	StoryName  lipgloss.Style
	StoryBody  lipgloss.Style
	Suggestion lipgloss.Style
}

// DefaultStyles returns the phone-like look.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Accent).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1),
		Sender:   lipgloss.NewStyle().Bold(true).Foreground(Ink),
		Meta:     lipgloss.NewStyle().Foreground(Muted),
		Masked:   lipgloss.NewStyle().Foreground(Warning),
		SafeMark: lipgloss.NewStyle().Foreground(Safe).Bold(true),
		Liked:    lipgloss.NewStyle().Foreground(Accent),
		Them: lipgloss.NewStyle().
			Background(Bubble).
			Foreground(Ink).
			Padding(0, 1),
		Me: lipgloss.NewStyle().
			Background(Calm).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),
		Avatar: lipgloss.NewStyle().
			Foreground(Ink).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(Calm),
		Choice:  lipgloss.NewStyle().Foreground(Calm).Bold(true),
		Blocked: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(Warning).Padding(0, 1),
		Error:   lipgloss.NewStyle().Foreground(Warning),
		Title: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			MarginBottom(1),
		StoryName:  lipgloss.NewStyle().Bold(true).Foreground(Calm),
		StoryBody:  lipgloss.NewStyle().Foreground(Ink),
		Suggestion: lipgloss.NewStyle().Foreground(Calm),
	}
}

// AvatarBadge renders a small figure in the profile's skin and clothing
// colours.
func AvatarBadge(p domain.AvatarProfile) string {
	p = avatar.WithDefaults(p)
	skin := lipgloss.Color("#B87333")
	if o, ok := avatar.Lookup(avatar.Ethnicities, p.Ethnicity); ok {
		skin = lipgloss.Color(o.Color)
	}
	cloth := lipgloss.Color("#4444FF")
	if o, ok := avatar.Lookup(avatar.ClothingColors, p.ClothingColor); ok {
		cloth = lipgloss.Color(o.Color)
	}
	head := lipgloss.NewStyle().Foreground(skin).Render("●")
	body := lipgloss.NewStyle().Foreground(cloth).Render("▲")
	return head + body + " " + p.DisplayName()
}
