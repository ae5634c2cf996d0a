// Package message models a commit message as a reviewable item.
package message

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CommitMessage is the text of a commit being made, cleaned the way git
// cleans it: comment lines and trailing blank lines are dropped.
type CommitMessage struct {
	lines []string
}

// New parses a raw commit message.
func New(text string) *CommitMessage {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	// drop leading and trailing blank lines
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return &CommitMessage{lines: lines}
}

// Load reads a commit message file such as .git/COMMIT_EDITMSG.
func Load(path string) (*CommitMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading commit message")
	}
	return New(string(data)), nil
}

// Name identifies the message in review output.
func (m *CommitMessage) Name() string {
	return "commit message"
}

// Subject returns the first line.
func (m *CommitMessage) Subject() string {
	if len(m.lines) == 0 {
		return ""
	}
	return m.lines[0]
}

// Lines returns every line, subject included. Line i is line number i+1.
func (m *CommitMessage) Lines() []string {
	return m.lines
}

// Body returns everything after the subject and the separating blank line.
func (m *CommitMessage) Body() string {
	if len(m.lines) < 2 {
		return ""
	}
	return strings.TrimLeft(strings.Join(m.lines[1:], "\n"), "\n")
}

// IsEmpty reports whether the message has no content.
func (m *CommitMessage) IsEmpty() bool {
	return len(m.lines) == 0
}

func (m *CommitMessage) String() string {
	return strings.Join(m.lines, "\n")
}
