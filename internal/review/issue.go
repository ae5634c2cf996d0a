package review

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sprite-ai/staticreview/internal/collection"
	"github.com/sprite-ai/staticreview/internal/model"
)

// Issue is a single problem a rule found in a reviewable.
type Issue struct {
	Level   model.Level
	Rule    string
	Subject string // name of the reviewable
	Line    int    // 1-based, 0 if the issue is about the whole subject
	Message string
}

func (i Issue) String() string {
	loc := i.Subject
	if i.Line > 0 {
		loc = fmt.Sprintf("%s:%d", i.Subject, i.Line)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Rule, loc, i.Message)
}

// IssueCollection is an ordered set of issues.
type IssueCollection = collection.Collection[*Issue]

// NewIssueCollection returns an IssueCollection holding issues.
func NewIssueCollection(issues ...*Issue) (*IssueCollection, error) {
	return collection.New("IssueCollection", validateIssue, issues...)
}

func validateIssue(i *Issue) error {
	switch {
	case i == nil:
		return errors.New("nil issue")
	case !i.Level.Valid():
		return errors.Errorf("issue has unknown level %d", i.Level)
	case i.Message == "":
		return errors.New("issue has no message")
	}
	return nil
}
