package rules

import (
	"fmt"
	"sort"

	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// Evaluate runs the feed's filters in order. A product is included only when
// every filter passes; filters never mutate the record.
//
// List quantification: include_only needs ANY element for positive conditions
// and ALL elements for negative ones. Exclude flips the quantifiers and then
// inverts the outcome, so include_only+contains (any element matches) and
// exclude+containsnot (every element matches) are De Morgan duals.
func Evaluate(filters []models.Filter, rec record.Record) (bool, error) {
	ordered := make([]models.Filter, len(filters))
	copy(ordered, filters)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	for _, f := range ordered {
		cond, err := ParseCondition(f.Condition)
		if err != nil {
			return false, fmt.Errorf("filter %d: %w", f.Position, err)
		}
		if cond.arithmetic() || cond == CondFindReplace {
			return false, fmt.Errorf("filter %d: condition %q is not a predicate", f.Position, cond)
		}
		if !pass(f, cond, rec) {
			return false, nil
		}
	}
	return true, nil
}

func pass(f models.Filter, cond Condition, rec record.Record) bool {
	values := rec.Get(f.Attribute).Strings()
	if len(values) == 0 {
		values = []string{""}
	}

	switch f.Mode {
	case models.FilterModeIncludeOnly:
		if cond.negative() {
			return allMatch(cond, values, f.Criteria, f.CaseSensitive)
		}
		return anyMatch(cond, values, f.Criteria, f.CaseSensitive)
	default: // exclude
		if cond.negative() {
			return !anyMatch(cond, values, f.Criteria, f.CaseSensitive)
		}
		return !allMatch(cond, values, f.Criteria, f.CaseSensitive)
	}
}
