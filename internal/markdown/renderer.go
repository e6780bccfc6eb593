// Package markdown renders chat transcripts for the terminal.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevencode7/rafiq/internal/chat"
)

// DefaultWidth is the wrap width used when none is given.
const DefaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981"))
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60a5fa"))
	botStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// Renderer wraps glamour for assistant replies and lipgloss for everything
// around them.
type Renderer struct {
	term  *glamour.TermRenderer
	width int
}

// NewRenderer creates a renderer that wraps at width columns.
func NewRenderer(width int) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Renderer{term: term, width: width}, nil
}

// Markdown renders assistant text. Rendering failures fall back to the
// plain text.
func (r *Renderer) Markdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := r.term.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Message renders one turn with a role label.
func (r *Renderer) Message(m chat.Message) string {
	if m.Role == chat.RoleUser {
		return userStyle.Render("أنت") + "\n" + m.Content
	}
	return botStyle.Render("رفيق") + "\n" + r.Markdown(m.Content)
}

// Session renders a whole chat under its title. An empty chat shows the
// welcome line instead.
func (r *Renderer) Session(s chat.Session) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title))
	b.WriteString("\n\n")

	if len(s.Messages) == 0 {
		b.WriteString(r.Message(chat.Message{Role: chat.RoleAssistant, Content: chat.Welcome}))
		return b.String()
	}
	for i, m := range s.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Message(m))
	}
	return b.String()
}

// Notice renders secondary status text.
func (r *Renderer) Notice(text string) string {
	return mutedStyle.Render(text)
}

// Title renders a heading.
func (r *Renderer) Title(text string) string {
	return titleStyle.Render(text)
}
