package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulse/internal/core"
	"pulse/internal/sentiment"
)

// maxHistory bounds the scrollback kept on screen.
const maxHistory = 6

// entry is one scored line of input.
type entry struct {
	text   string
	result core.SentimentResult
}

// model represents the state of the interactive scoring console.
type model struct {
	engine   *sentiment.Engine
	input    []rune
	history  []entry
	err      error
	width    int
	height   int
	quitting bool
}

func initialModel(engine *sentiment.Engine) model {
	return model{engine: engine}
}

// Init is the first command that will be run. We don't need any for now.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// Plain letters stay typeable, so quitting is esc/ctrl+c only.
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(string(m.input))
			if text == "" {
				return m, nil
			}
			result, err := m.engine.Analyze(text)
			if err != nil {
				m.err = err
			} else {
				m.err = nil
				m.history = append(m.history, entry{text: text, result: result})
				if len(m.history) > maxHistory {
					m.history = m.history[len(m.history)-maxHistory:]
				}
			}
			m.input = nil
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeySpace:
			m.input = append(m.input, ' ')
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
		}
	}

	return m, nil
}

// View renders the console.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	docStyle := lipgloss.NewStyle().Margin(1, 2)
	titleStyle := lipgloss.NewStyle().Bold(true)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("pulse interactive console"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		tag := fmt.Sprintf("[%-13s %+.2f]", e.result.Label, e.result.Score)
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle(e.result.Label).Render(tag), m.truncate(e.text)))
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
		b.WriteString(renderResult(m.history[len(m.history)-1].result))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("> %s▌\n\n", string(m.input)))
	b.WriteString(helpStyle.Render("[enter] analyze | [esc] quit"))

	return docStyle.Render(b.String())
}

// truncate shortens history lines so the scrollback stays one row per entry.
func (m model) truncate(text string) string {
	limit := 60
	if m.width > 30 {
		limit = m.width - 26
	}
	if len(text) <= limit {
		return text
	}
	return text[:limit-3] + "..."
}

// renderResult shows the detailed verdict for the most recent line.
func renderResult(r core.SentimentResult) string {
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  score %+.3f  magnitude %.3f  confidence %.2f\n",
		LabelStyle(r.Label).Render(strings.ToUpper(r.Label)), r.Score, r.Magnitude, r.Confidence))
	b.WriteString(faint.Render(fmt.Sprintf("method %s | language %s | tokens %d", r.Method, r.Language, r.TokenCount)))
	b.WriteString("\n")
	if r.Emotions != nil {
		b.WriteString(renderEmotions(*r.Emotions))
	}
	return b.String()
}

func renderEmotions(v core.EmotionVector) string {
	rows := []struct {
		name  string
		value float64
	}{
		{"joy", v.Joy},
		{"sadness", v.Sadness},
		{"anger", v.Anger},
		{"fear", v.Fear},
		{"surprise", v.Surprise},
		{"disgust", v.Disgust},
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-8s %s %.2f\n", row.name, renderBar(row.value, 20), row.value))
	}
	return b.String()
}

// renderBar draws a fixed-width gauge for a value in [0,1].
func renderBar(value float64, width int) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// LabelStyle maps a sentiment label to its display color.
func LabelStyle(label string) lipgloss.Style {
	switch label {
	case core.LabelVeryPositive:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	case core.LabelPositive:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	case core.LabelVeryNegative:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	case core.LabelNegative:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	}
}

// Start runs the interactive scoring console on top of engine. It blocks
// until the user quits.
func Start(engine *sentiment.Engine) error {
	p := tea.NewProgram(initialModel(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive console: %w", err)
	}
	return nil
}
