package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/review"
)

// maxPreviewLines caps how much of a file without a diff is shown.
const maxPreviewLines = 500

// renderedLine is a single line of the content view ready for display.
type renderedLine struct {
	OldNum  int // 0 means not applicable (add-only)
	NewNum  int // 0 means not applicable (delete-only)
	Op      gitdiff.LineOp
	Content string
	IsHunk  bool
	Notice  bool // a message about the file rather than its content

	Spans diff.Line

	Issue *review.Issue // set on annotation lines
}

// renderChange produces the lines for a staged diff.
func renderChange(c diff.Change, h *diff.Highlighter) []renderedLine {
	var lines []renderedLine

	for i, frag := range c.Fragments {
		lines = append(lines, renderedLine{IsHunk: true, Content: formatHunkHeader(frag)})
		highlighted := h.Fragment(c.Path, c, i)

		oldLine := int(frag.OldPosition)
		newLine := int(frag.NewPosition)

		for j, line := range frag.Lines {
			rl := renderedLine{
				Op:      line.Op,
				Content: strings.TrimRight(line.Line, "\n\r"),
			}
			if j < len(highlighted) {
				rl.Spans = highlighted[j]
			}

			switch line.Op {
			case gitdiff.OpContext:
				rl.OldNum, rl.NewNum = oldLine, newLine
				oldLine++
				newLine++
			case gitdiff.OpDelete:
				rl.OldNum = oldLine
				oldLine++
			case gitdiff.OpAdd:
				rl.NewNum = newLine
				newLine++
			}
			lines = append(lines, rl)
		}
	}
	return lines
}

// renderContent produces the lines for a file shown whole, such as an
// untracked file.
func renderContent(f *file.File, h *diff.Highlighter) []renderedLine {
	if f.IsDeleted() {
		return []renderedLine{{Notice: true, Content: "file deleted"}}
	}
	text, err := f.IsText()
	if err != nil {
		return []renderedLine{{Notice: true, Content: err.Error()}}
	}
	if !text {
		return []renderedLine{{Notice: true, Content: "binary file"}}
	}

	data, err := os.ReadFile(f.FullPath())
	if err != nil {
		return []renderedLine{{Notice: true, Content: err.Error()}}
	}
	source := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	truncated := len(source) > maxPreviewLines
	if truncated {
		source = source[:maxPreviewLines]
	}

	highlighted := h.Lines(f.FileName(), source)
	lines := make([]renderedLine, 0, len(source)+1)
	for i, s := range source {
		lines = append(lines, renderedLine{
			Op:      gitdiff.OpContext,
			NewNum:  i + 1,
			Content: strings.TrimRight(s, "\r"),
			Spans:   highlighted[i],
		})
	}
	if truncated {
		lines = append(lines, renderedLine{Notice: true, Content: fmt.Sprintf("showing the first %d lines", maxPreviewLines)})
	}
	return lines
}

// annotate inserts an annotation line after each line an issue points at.
// Issues about the whole file, or about lines not shown, come first.
func annotate(lines []renderedLine, issues []*review.Issue) []renderedLine {
	shown := make(map[int]bool)
	for _, l := range lines {
		if l.NewNum > 0 {
			shown[l.NewNum] = true
		}
	}

	byLine := make(map[int][]*review.Issue)
	var header []renderedLine
	for _, i := range issues {
		if i.Line > 0 && shown[i.Line] {
			byLine[i.Line] = append(byLine[i.Line], i)
			continue
		}
		header = append(header, renderedLine{Issue: i})
	}

	result := append(header, make([]renderedLine, 0, len(lines))...)
	for _, l := range lines {
		result = append(result, l)
		if l.NewNum == 0 {
			continue
		}
		for _, i := range byLine[l.NewNum] {
			result = append(result, renderedLine{Issue: i})
		}
		delete(byLine, l.NewNum)
	}
	return result
}

func formatHunkHeader(frag *gitdiff.TextFragment) string {
	old := fmt.Sprintf("-%d", frag.OldPosition)
	if frag.OldLines != 1 {
		old += fmt.Sprintf(",%d", frag.OldLines)
	}
	new := fmt.Sprintf("+%d", frag.NewPosition)
	if frag.NewLines != 1 {
		new += fmt.Sprintf(",%d", frag.NewLines)
	}

	header := fmt.Sprintf("@@ %s %s @@", old, new)
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header
}

// renderHighlighted renders line content with syntax colours.
func renderHighlighted(rl renderedLine, prefix string) string {
	if len(rl.Spans) == 0 {
		return prefix + rl.Content
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, span := range rl.Spans {
		if span.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(span.Color)).Render(span.Text))
		} else {
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// formatIssue renders an issue annotation.
func formatIssue(i *review.Issue) string {
	loc := ""
	if i.Line > 0 {
		loc = fmt.Sprintf(" line %d", i.Line)
	}
	return fmt.Sprintf("%s [%s]%s: %s", LevelIcon(i.Level), i.Rule, loc, i.Message)
}

// styleLine applies styling to a rendered line.
func styleLine(rl renderedLine, width int) string {
	switch {
	case rl.Issue != nil:
		return LevelStyle(rl.Issue.Level).Render(truncate("  "+formatIssue(rl.Issue), width))
	case rl.Notice:
		return noticeStyle.Render(truncate(rl.Content, width))
	case rl.IsHunk:
		return hunkHeaderStyle.Width(width).Render(truncate(rl.Content, width))
	}

	oldNum, newNum := "    ", "    "
	if rl.OldNum > 0 {
		oldNum = fmt.Sprintf("%4d", rl.OldNum)
	}
	if rl.NewNum > 0 {
		newNum = fmt.Sprintf("%4d", rl.NewNum)
	}
	lineNums := lineNumberStyle.Render(oldNum) + " " + lineNumberStyle.Render(newNum)

	maxContent := width - 11
	var content string
	switch rl.Op {
	case gitdiff.OpAdd:
		content = addedLineStyle.Render(truncate("+"+rl.Content, maxContent))
	case gitdiff.OpDelete:
		content = deletedLineStyle.Render(truncate("-"+rl.Content, maxContent))
	default:
		content = renderHighlighted(rl, " ")
		if maxContent > 0 && lipgloss.Width(content) > maxContent {
			content = truncate(" "+rl.Content, maxContent)
		}
	}

	return lineNums + " " + content
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
