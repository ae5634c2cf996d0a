package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is named.
const DefaultStyle = "dracula"

// Span is a run of text sharing one colour.
type Span struct {
	Text  string
	Color string // hex colour, empty for the terminal default
}

// Line is one highlighted source line.
type Line []Span

// Plain returns the line without colour information.
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Highlighter colours source lines using a chroma style.
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter returns a Highlighter for the named chroma style, falling
// back to chroma's default for unknown names.
func NewHighlighter(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style}
}

// Lines highlights lines as the language of filename. It always returns
// exactly one Line per input line.
func (h *Highlighter) Lines(filename string, lines []string) []Line {
	lexer := lexerFor(filename)
	if lexer == nil {
		return plain(lines)
	}

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plain(lines)
	}

	result := make([]Line, 0, len(lines))
	var current Line
	for _, token := range iterator.Tokens() {
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				result = append(result, current)
				current = nil
			}
			if part != "" {
				current = append(current, Span{Text: part, Color: h.color(token.Type)})
			}
		}
	}
	result = append(result, current)

	// chroma appends a newline to the last token; drop what it adds
	if len(result) > len(lines) {
		result = result[:len(lines)]
	}
	for len(result) < len(lines) {
		result = append(result, nil)
	}
	return result
}

// Fragment highlights the lines of a diff fragment body, operation markers
// removed.
func (h *Highlighter) Fragment(filename string, c Change, index int) []Line {
	if index < 0 || index >= len(c.Fragments) {
		return nil
	}
	frag := c.Fragments[index]
	lines := make([]string, len(frag.Lines))
	for i, l := range frag.Lines {
		lines[i] = strings.TrimSuffix(l.Line, "\n")
	}
	return h.Lines(filename, lines)
}

func (h *Highlighter) color(tt chroma.TokenType) string {
	entry := h.style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}

func plain(lines []string) []Line {
	result := make([]Line, len(lines))
	for i, line := range lines {
		result[i] = Line{{Text: line}}
	}
	return result
}

func lexerFor(filename string) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}
