// Package rules applies user-configured rewrite rules and include/exclude
// filters to resolved product records.
package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is the closed set of rule/filter operators. Unknown strings fail
// at parse time instead of silently matching nothing.
type Condition string

const (
	CondContains    Condition = "contains"
	CondContainsNot Condition = "containsnot"
	CondEqual       Condition = "="
	CondNotEqual    Condition = "!="
	CondGreater     Condition = ">"
	CondGreaterEq   Condition = ">="
	CondLess        Condition = "<"
	CondLessEq      Condition = "<="
	CondEmpty       Condition = "empty"
	CondNotEmpty    Condition = "notempty"
	CondMultiply    Condition = "multiply"
	CondDivide      Condition = "divide"
	CondPlus        Condition = "plus"
	CondMinus       Condition = "minus"
	CondFindReplace Condition = "findreplace"
)

func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.TrimSpace(s)); c {
	case CondContains, CondContainsNot, CondEqual, CondNotEqual,
		CondGreater, CondGreaterEq, CondLess, CondLessEq,
		CondEmpty, CondNotEmpty,
		CondMultiply, CondDivide, CondPlus, CondMinus, CondFindReplace:
		return c, nil
	default:
		return "", fmt.Errorf("unknown condition %q", s)
	}
}

// arithmetic conditions rewrite the target directly instead of testing it
func (c Condition) arithmetic() bool {
	switch c {
	case CondMultiply, CondDivide, CondPlus, CondMinus:
		return true
	}
	return false
}

// negative conditions quantify over ALL list elements where positive ones
// need ANY
func (c Condition) negative() bool {
	switch c {
	case CondContainsNot, CondNotEqual, CondEmpty:
		return true
	}
	return false
}

// NumericValue reports whether a field value counts as numeric for rule
// branching: after trimming and normalizing a decimal comma, the whole string
// must parse as a float. Empty strings are not numeric.
func NumericValue(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// matchScalar evaluates a condition against one scalar element.
func matchScalar(cond Condition, value, criteria string, caseSensitive bool) bool {
	switch cond {
	case CondEmpty:
		return strings.TrimSpace(value) == ""
	case CondNotEmpty:
		return strings.TrimSpace(value) != ""
	}

	// numeric comparison when both sides qualify
	if v, vok := NumericValue(value); vok {
		if c, cok := NumericValue(criteria); cok {
			switch cond {
			case CondEqual:
				return v == c
			case CondNotEqual:
				return v != c
			case CondGreater:
				return v > c
			case CondGreaterEq:
				return v >= c
			case CondLess:
				return v < c
			case CondLessEq:
				return v <= c
			}
		}
	}

	lv, lc := value, criteria
	if !caseSensitive {
		lv = strings.ToLower(value)
		lc = strings.ToLower(criteria)
	}
	switch cond {
	case CondContains:
		return strings.Contains(lv, lc)
	case CondContainsNot:
		return !strings.Contains(lv, lc)
	case CondEqual:
		return lv == lc
	case CondNotEqual:
		return lv != lc
	case CondGreater:
		return lv > lc
	case CondGreaterEq:
		return lv >= lc
	case CondLess:
		return lv < lc
	case CondLessEq:
		return lv <= lc
	}
	return false
}

func anyMatch(cond Condition, values []string, criteria string, caseSensitive bool) bool {
	for _, v := range values {
		if matchScalar(cond, v, criteria, caseSensitive) {
			return true
		}
	}
	return false
}

func allMatch(cond Condition, values []string, criteria string, caseSensitive bool) bool {
	for _, v := range values {
		if !matchScalar(cond, v, criteria, caseSensitive) {
			return false
		}
	}
	return true
}
