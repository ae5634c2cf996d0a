package review

import (
	"context"
	"iter"

	logger "github.com/sirupsen/logrus"

	"github.com/sprite-ai/staticreview/internal/model"
)

// Engine runs every applicable rule against each reviewable.
type Engine struct {
	rules *RuleCollection
	log   logger.FieldLogger
}

// NewEngine returns an Engine for rules. A nil log uses the standard logger.
func NewEngine(rules *RuleCollection, log logger.FieldLogger) *Engine {
	if log == nil {
		log = logger.StandardLogger()
	}
	return &Engine{rules: rules, log: log}
}

// Rules returns the rules the engine runs.
func (e *Engine) Rules() *RuleCollection {
	return e.rules
}

// Review runs the rules over items in order. A rule that fails is reported
// as an error against the item and the review carries on. The context is
// checked between items.
func (e *Engine) Review(ctx context.Context, items iter.Seq[Reviewable]) (*Reporter, error) {
	reporter := NewReporter()

	for item := range items {
		if err := ctx.Err(); err != nil {
			return reporter, err
		}

		log := e.log.WithField("subject", item.Name())
		ran := 0
		for rule := range e.rules.Values() {
			if !rule.CanReview(item) {
				continue
			}
			ran++
			if err := rule.Review(reporter, item); err != nil {
				log.WithError(err).WithField("rule", rule.Name()).Warn("rule failed")
				if rerr := reporter.Report(model.LevelError, rule.Name(), item, 0, "rule failed: %v", err); rerr != nil {
					return reporter, rerr
				}
			}
		}
		log.Debugf("ran %d rule(s)", ran)
	}

	return reporter, nil
}

// Items adapts any sequence of reviewable values to the engine's input.
func Items[T Reviewable](seq iter.Seq[T]) iter.Seq[Reviewable] {
	return func(yield func(Reviewable) bool) {
		for item := range seq {
			if !yield(item) {
				return
			}
		}
	}
}
