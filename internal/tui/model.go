package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"askpdf/internal/domain"
)

// SessionPort is the TUI-facing subset of the retrieval session.
type SessionPort interface {
	Query(query string, topK int) ([]domain.Match, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	session   SessionPort
	topK      int
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.Match
	header    string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. header describes the loaded
// document, e.g. its name and chunk count.
func New(session SessionPort, header string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{session: session, topK: topK, input: ti, viewport: vp, header: header, status: "Document processed. Ask a question."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.Type == tea.KeyCtrlD:
			return m, tea.Quit
		case msg.Type == tea.KeyEnter:
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				return m.ask(q), nil
			}
		case msg.Type == tea.KeyDown && len(m.results) > 0:
			return m.step(1), nil
		case msg.Type == tea.KeyUp && len(m.results) > 0:
			return m.step(-1), nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize gives the result viewport whatever height the title, header,
// query box, status and footer leave over.
func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.ready = true
	_, rh := resultBoxStyle.GetFrameSize()
	_, qh := queryBoxStyle.GetFrameSize()
	reserved := 2 + 1 + qh + 1 + 1
	m.viewport.Width = max(20, msg.Width)
	m.viewport.Height = max(3, msg.Height-reserved-rh)
	m.viewport.SetContent(m.renderCurrentResult())
	return m
}

// ask runs q against the session. A failed query clears the previous
// results so stale chunks are never shown under a new question.
func (m Model) ask(q string) Model {
	res, err := m.session.Query(q, m.topK)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
	} else {
		m.status = fmt.Sprintf("%d result(s) for %q", len(res), q)
		m.results = res
		m.cursor = 0
		m.lastQuery = q
	}
	m.viewport.SetContent(m.renderCurrentResult())
	m.viewport.GotoTop()
	return m
}

// step moves the result cursor, wrapping at both ends.
func (m Model) step(delta int) Model {
	n := len(m.results)
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.viewport.SetContent(m.renderCurrentResult())
	m.viewport.GotoTop()
	return m
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("PDF Analyzer") + "\n")
	b.WriteString(dimStyle.Render(m.header) + "\n")
	b.WriteString(resultBoxStyle.Render(m.viewport.View()) + "\n")
	b.WriteString(queryBoxStyle.Render(m.input.View()) + "\n")
	b.WriteString(statusStyle.Render(m.status) + "\n")
	b.WriteString(dimStyle.Render(m.footer()))
	return b.String()
}

func (m Model) footer() string {
	keys := "enter ask  ctrl+c quit"
	if len(m.results) > 1 {
		keys = "enter ask  up/down browse results  ctrl+c quit"
	}
	if m.topK > 0 {
		return fmt.Sprintf("%s  (top %d)", keys, m.topK)
	}
	return keys
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	label := "Best answer"
	if len(m.results) > 1 {
		label = fmt.Sprintf("Result %d/%d", m.cursor+1, len(m.results))
	}
	title := fmt.Sprintf("%s  chunk=%d  score=%.3f", label, r.Chunk.Index, r.Score)
	if r.Score == 0 {
		title += "  (no shared terms)"
	}
	body := highlightBestSentence(r.Chunk.Text, m.lastQuery)
	return title + "\n\n" + body
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordRe         = regexp.MustCompile(`[a-z0-9]+`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence marks the sentence sharing the most distinct words
// with the query. Text after the last terminator is kept as a final sentence.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := splitSentences(text)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestScore > 0 {
		sentences[bestIdx] = highlightStyle.Render(sentences[bestIdx])
	}
	return strings.Join(sentences, " ")
}

func splitSentences(text string) []string {
	locs := sentenceRe.FindAllStringIndex(text, -1)
	var out []string
	end := 0
	for _, l := range locs {
		if s := strings.TrimSpace(text[l[0]:l[1]]); s != "" {
			out = append(out, s)
		}
		end = l[1]
	}
	if tail := strings.TrimSpace(text[end:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := wordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
