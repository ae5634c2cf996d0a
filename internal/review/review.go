// Package review runs rules against reviewable items and collects the
// issues they report.
package review

import (
	"github.com/pkg/errors"

	"github.com/sprite-ai/staticreview/internal/collection"
)

// Reviewable is anything a rule can inspect. Name identifies the item in
// reports and must be stable for the lifetime of a review.
type Reviewable interface {
	Name() string
}

// Rule inspects reviewables and reports issues.
type Rule interface {
	Name() string
	Description() string
	// CanReview reports whether the rule applies to item.
	CanReview(item Reviewable) bool
	// Review reports issues for item. A returned error means the rule could
	// not complete, not that the item has problems.
	Review(r *Reporter, item Reviewable) error
}

// RuleCollection is an ordered set of rules.
type RuleCollection = collection.Collection[Rule]

// NewRuleCollection returns a RuleCollection holding rules.
func NewRuleCollection(rules ...Rule) (*RuleCollection, error) {
	return collection.New("RuleCollection", validateRule, rules...)
}

func validateRule(r Rule) error {
	if r == nil {
		return errors.New("nil rule")
	}
	if r.Name() == "" {
		return errors.New("rule has no name")
	}
	return nil
}
