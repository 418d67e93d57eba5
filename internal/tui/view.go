package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/soyeahso/safetalk/internal/community"
	"github.com/soyeahso/safetalk/internal/domain"
	"github.com/soyeahso/safetalk/internal/flow"
)

// View renders the active screen.
func (m *Model) View() string {
	var body, help string
	switch m.screen {
	case screenPhone:
		body, help = m.phoneView(), "enter open • l like • r reply • c community • q quit"
	case screenConversation:
		body, help = m.conversationView(), m.conversationHelp()
	case screenCommunity:
		body, help = m.communityView(), "s share • n name • a anonymous • t talk to avatar • esc back"
	}
	parts := []string{m.styles.Header.Render("Be Kind"), body}
	if m.target != inputNone {
		parts = append(parts, m.input.View())
	}
	if m.status != "" {
		parts = append(parts, m.styles.Meta.Render(m.status))
	}
	parts = append(parts, m.styles.Footer.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) phoneView() string {
	v := m.view
	if !v.Present {
		return m.styles.Meta.Render("No notifications yet " + m.spin.View())
	}
	var text string
	switch {
	case v.Masked:
		text = m.styles.Masked.Render(v.DisplayText)
	case v.Safe:
		text = v.DisplayText + " " + m.styles.SafeMark.Render("✓")
	default:
		text = v.DisplayText
	}
	if v.Result.Status == domain.StatusPending && !v.HardFlagged {
		text += " " + m.spin.View()
	}
	lines := []string{
		m.styles.Sender.Render(v.Message.Sender) + " " + m.styles.Meta.Render(v.Message.App+" • "+v.Message.Time),
		text,
	}
	if v.Liked {
		lines = append(lines, m.styles.Liked.Render("♥ liked"))
	}
	if v.ReplyMode && m.target != inputReply {
		lines = append(lines, m.styles.Meta.Render("draft: "+v.ReplyDraft))
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m *Model) conversationView() string {
	c := m.conv
	if c == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(c.Contact()))
	b.WriteString("\n")
	for _, msg := range c.Messages() {
		style := m.styles.Them
		align := lipgloss.Left
		if msg.Sender == domain.SenderMe {
			style, align = m.styles.Me, lipgloss.Right
		}
		line := style.Render(msg.Text) + " " + m.styles.Meta.Render(msg.Time)
		b.WriteString(lipgloss.PlaceHorizontal(max(m.width-2, lipgloss.Width(line)), align, line))
		b.WriteString("\n")
	}
	switch c.State() {
	case flow.StateChoices:
		b.WriteString(m.styles.Choice.Render("[b] Block   [r] Respond"))
	case flow.StateBlocked:
		b.WriteString(m.styles.Blocked.Render("You blocked this user"))
	case flow.StateResponding:
		for i, s := range c.Suggestions() {
			b.WriteString(m.styles.Suggestion.Render(fmt.Sprintf("[%d] %s", i+1, s)))
			b.WriteString("\n")
		}
	case flow.StateSharePrompt:
		b.WriteString(m.styles.Avatar.Render(c.Prompt()))
		b.WriteString("\n")
		b.WriteString(m.styles.Choice.Render("[g] See community experiences"))
	}
	return b.String()
}

func (m *Model) conversationHelp() string {
	c := m.conv
	if c == nil {
		return "esc back"
	}
	switch c.State() {
	case flow.StateChoices:
		return "b block • r respond • esc back"
	case flow.StateResponding:
		return "1-3 send suggestion • i type • esc back"
	case flow.StateSharePrompt:
		return "g community • i type • esc back"
	case flow.StateBlocked:
		return "esc back"
	}
	return "i type • esc back"
}

func (m *Model) communityView() string {
	return m.vp.View()
}

// refreshCommunity rebuilds the scrollable community content.
func (m *Model) refreshCommunity() {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Community experiences"))
	b.WriteString("\n")
	if m.deps.Board != nil {
		for _, e := range m.deps.Board.List() {
			b.WriteString(m.styles.StoryName.Render(e.Name))
			b.WriteString(" ")
			b.WriteString(m.styles.Meta.Render(e.Timestamp))
			b.WriteString("\n")
			b.WriteString(m.styles.StoryBody.Render(e.Text))
			b.WriteString("\n\n")
		}
		b.WriteString(m.styles.Meta.Render("sharing as " + community.DisplayName(m.storyName, m.anonymous)))
		b.WriteString("\n")
	}
	if m.session != nil && m.deps.Avatar != nil {
		b.WriteString("\n")
		b.WriteString(AvatarBadge(*m.deps.Avatar))
		b.WriteString("\n")
		for _, e := range m.session.Transcript() {
			if e.Role == domain.RoleUser {
				b.WriteString(m.styles.Me.Render(e.Content))
			} else {
				b.WriteString(m.styles.Avatar.Render(e.Content))
			}
			b.WriteString("\n")
		}
		if m.session.InFlight() {
			b.WriteString(m.spin.View())
			b.WriteString("\n")
		}
		if errText := m.session.Error(); errText != "" {
			b.WriteString(m.styles.Error.Render(errText))
			b.WriteString("\n")
		}
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}
