// Package tui implements the Bubble Tea browser for a finished review.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/staticreview/internal/collection"
	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/model"
	"github.com/sprite-ai/staticreview/internal/review"
)

// Input is what the browser shows: the reviewed files, their staged
// changes and the issues the review raised.
type Input struct {
	Files   *file.Collection
	Changes []diff.Change
	Report  *review.Reporter
	Style   string // chroma style name, empty for the default
}

// Model is the top-level Bubble Tea model.
type Model struct {
	files       *file.Collection
	cursor      *collection.Cursor[*file.File]
	changes     map[string]diff.Change
	issues      map[string][]*review.Issue
	summary     string
	highlighter *diff.Highlighter

	// UI state
	width  int
	height int

	scrollOffset int
	viewHeight   int

	// Rendered lines for the current file
	lines []renderedLine

	showHelp bool
}

// New creates a browser model positioned on the first file.
func New(in Input) Model {
	changes := make(map[string]diff.Change, len(in.Changes))
	for _, c := range in.Changes {
		changes[c.Path] = c
	}

	report := in.Report
	if report == nil {
		report = review.NewReporter()
	}

	m := Model{
		files:       in.Files,
		cursor:      in.Files.Cursor(),
		changes:     changes,
		issues:      report.BySubject(),
		summary:     report.Summary(),
		highlighter: diff.NewHighlighter(in.Style),
	}
	m.updateLines()
	return m
}

func (m *Model) current() (*file.File, bool) {
	return m.cursor.Current()
}

func (m *Model) updateLines() {
	f, ok := m.current()
	if !ok {
		m.lines = nil
		return
	}

	var lines []renderedLine
	if c, ok := m.changes[filepath.ToSlash(f.Name())]; ok && len(c.Fragments) > 0 {
		lines = renderChange(c, m.highlighter)
	} else {
		lines = renderContent(f, m.highlighter)
	}
	m.lines = annotate(lines, m.issues[f.Name()])
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 6 // status bar, borders, header
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			m.scrollTo(m.scrollOffset + 1)

		case key.Matches(msg, keys.Up):
			m.scrollTo(m.scrollOffset - 1)

		case key.Matches(msg, keys.PageDown):
			m.scrollTo(m.scrollOffset + max(m.viewHeight, 1))

		case key.Matches(msg, keys.PageUp):
			m.scrollTo(m.scrollOffset - max(m.viewHeight, 1))

		case key.Matches(msg, keys.NextFile):
			if _, ok := m.cursor.Next(); !ok {
				m.cursor.Prev()
				break
			}
			m.scrollOffset = 0
			m.updateLines()

		case key.Matches(msg, keys.PrevFile):
			if m.cursor.Key() == 0 {
				break
			}
			m.cursor.Prev()
			m.scrollOffset = 0
			m.updateLines()

		case key.Matches(msg, keys.NextIssue):
			m.jumpToNextIssue()

		case key.Matches(msg, keys.PrevIssue):
			m.jumpToPrevIssue()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m *Model) scrollTo(offset int) {
	m.scrollOffset = max(0, min(offset, len(m.lines)-1))
}

func (m *Model) jumpToNextIssue() {
	for i := m.scrollOffset + 1; i < len(m.lines); i++ {
		if m.lines[i].Issue != nil {
			m.scrollOffset = i
			return
		}
	}
}

func (m *Model) jumpToPrevIssue() {
	for i := m.scrollOffset - 1; i >= 0; i-- {
		if m.lines[i].Issue != nil {
			m.scrollOffset = i
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.fileListWidth()
	contentWidth := m.width - listWidth - 1

	list := m.renderFileList(listWidth, m.height-2)
	content := m.renderContentView(contentWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", content)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) fileListWidth() int {
	longest := 20
	for f := range m.files.Values() {
		longest = max(longest, lipgloss.Width(f.Name()))
	}
	return max(20, min(longest+10, m.width/3))
}

// fileLevel returns the most severe level reported against f.
func (m Model) fileLevel(f *file.File) (model.Level, bool) {
	var level model.Level
	issues := m.issues[f.Name()]
	for _, i := range issues {
		level = max(level, i.Level)
	}
	return level, len(issues) > 0
}

func (m Model) renderFileList(width, height int) string {
	var b strings.Builder

	for i, f := range m.files.All() {
		maxName := width - 10
		name := f.Name()
		if maxName > 0 && lipgloss.Width(name) > maxName {
			r := []rune(name)
			name = "…" + string(r[len(r)-maxName+1:])
		}

		count := len(m.issues[f.Name()])
		line := fmt.Sprintf("%-2s %-*s %3d", f.Status(), maxName, name, count)

		var style lipgloss.Style
		level, hasIssues := m.fileLevel(f)
		switch {
		case i == m.cursor.Key():
			style = fileItemSelectedStyle
		case hasIssues:
			style = LevelStyle(level)
		case f.IsDeleted():
			style = fileItemCleanStyle.Strikethrough(true)
		default:
			style = fileItemCleanStyle
		}

		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(style.Width(width - 4).Render(line))
	}

	return fileListStyle.Width(width).Height(height - 2).Render(b.String())
}

func (m Model) renderContentView(width, height int) string {
	f, ok := m.current()
	if !ok {
		return contentViewStyle.Width(width).Height(height - 2).Render("No files to review")
	}

	innerWidth := width - 4
	innerHeight := height - 2

	title := f.Name()
	if prior, ok := f.FilePathBeforeRename(); ok {
		title = prior + " → " + title
	}
	if word, err := f.FormattedStatus(); err == nil {
		title += " (" + word + ")"
	}

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render(title))
	b.WriteByte('\n')

	visible := max(innerHeight-2, 1)
	end := min(m.scrollOffset+visible, len(m.lines))
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], innerWidth))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return contentViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" File %d/%d", m.cursor.Key()+1, m.files.Count())
	if len(m.lines) > 0 {
		left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
	}
	right := m.summary + "  ? help "

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(fileHeaderStyle.Render("static-review: keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, binding := range keys.bindings() {
		help := binding.Help()
		fmt.Fprintf(&b, "  %s  %s\n", helpKeyStyle.Width(12).Render(help.Key), help.Desc)
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))
	return b.String()
}

// Run starts the browser and blocks until the user quits.
func Run(in Input) error {
	p := tea.NewProgram(New(in), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
