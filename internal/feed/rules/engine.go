package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// shippingField never takes the numeric branch: its rows carry price strings
// that arithmetic must address per row, not as one number.
const shippingField = "shipping"

// Apply runs the feed's rules over the record in position order. Rules see
// the rewrites of earlier rules. Invalid conditions are reported, valid ones
// keep applying.
func Apply(ruleList []models.Rule, rec record.Record) error {
	ordered := make([]models.Rule, len(ruleList))
	copy(ordered, ruleList)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var errs []string
	for _, r := range ordered {
		cond, err := ParseCondition(r.Condition)
		if err != nil {
			errs = append(errs, fmt.Sprintf("rule %d: %v", r.Position, err))
			continue
		}
		applyRule(r, cond, rec)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid rules skipped: %s", strings.Join(errs, "; "))
	}
	return nil
}

func applyRule(r models.Rule, cond Condition, rec record.Record) {
	target := strings.TrimSpace(r.Target)
	if target == "" || target == "self" {
		target = r.Attribute
	}

	source := rec.Get(r.Attribute)
	switch source.Kind {
	case record.KindList:
		items := make([]string, len(source.List))
		for i, item := range source.List {
			items[i] = applyScalar(r, cond, item, target)
		}
		if target == r.Attribute {
			rec.Set(target, record.List(items))
		} else if anyMatch(cond, source.List, r.Criteria, r.CaseSensitive) {
			rec.SetString(target, r.NewValue)
		}
	case record.KindRows:
		applyRows(r, cond, rec, source, target)
	default:
		if cond.arithmetic() || cond == CondFindReplace {
			rec.SetString(target, applyScalar(r, cond, source.Scalar, target))
		} else if matchScalar(cond, source.Scalar, r.Criteria, r.CaseSensitive) {
			rec.SetString(target, r.NewValue)
		}
	}
}

// applyScalar returns the rewritten value for one element: arithmetic
// computes, findreplace substitutes, test conditions overwrite with the
// rule's new value on match.
func applyScalar(r models.Rule, cond Condition, value, target string) string {
	if cond.arithmetic() {
		v, vok := NumericValue(value)
		c, cok := NumericValue(r.Criteria)
		if !vok || !cok || target == shippingField {
			return value
		}
		switch cond {
		case CondMultiply:
			return formatNumber(v * c)
		case CondDivide:
			if c == 0 {
				return value
			}
			return formatNumber(v / c)
		case CondPlus:
			return formatNumber(v + c)
		case CondMinus:
			return formatNumber(v - c)
		}
		return value
	}

	if cond == CondFindReplace {
		if r.CaseSensitive {
			return strings.ReplaceAll(value, r.Criteria, r.NewValue)
		}
		return replaceFold(value, r.Criteria, r.NewValue)
	}

	if matchScalar(cond, value, r.Criteria, r.CaseSensitive) {
		return r.NewValue
	}
	return value
}

// applyRows rewrites row-valued fields: arithmetic adjusts each row's price,
// findreplace runs over every field, test conditions match against the
// encoded rows.
func applyRows(r models.Rule, cond Condition, rec record.Record, source record.Value, target string) {
	if cond.arithmetic() {
		c, cok := NumericValue(r.Criteria)
		if !cok {
			return
		}
		rows := make([]record.Row, len(source.Rows))
		for i, row := range source.Rows {
			nr := record.NewRow()
			for _, key := range row.Keys {
				val := row.Values[key]
				if key == "price" {
					if v, ok := NumericValue(val); ok {
						switch cond {
						case CondMultiply:
							val = formatNumber(v * c)
						case CondDivide:
							if c != 0 {
								val = formatNumber(v / c)
							}
						case CondPlus:
							val = formatNumber(v + c)
						case CondMinus:
							val = formatNumber(v - c)
						}
					}
				}
				nr.Set(key, val)
			}
			rows[i] = nr
		}
		rec.Set(r.Attribute, record.Rows(rows))
		return
	}

	if cond == CondFindReplace {
		rows := make([]record.Row, len(source.Rows))
		for i, row := range source.Rows {
			nr := record.NewRow()
			for _, key := range row.Keys {
				nr.Set(key, applyScalar(r, cond, row.Values[key], target))
			}
			rows[i] = nr
		}
		rec.Set(r.Attribute, record.Rows(rows))
		return
	}

	if anyMatch(cond, source.Strings(), r.Criteria, r.CaseSensitive) && target != r.Attribute {
		rec.SetString(target, r.NewValue)
	}
}

// formatNumber rounds half-up to two decimals, matching the price fields so
// rule arithmetic and resolved prices agree in the output.
func formatNumber(v float64) string {
	return fmt.Sprintf("%.2f", math.Floor(v*100+0.5)/100)
}

func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	lower, lowerOld := strings.ToLower(s), strings.ToLower(old)
	for {
		i := strings.Index(lower, lowerOld)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s = s[i+len(old):]
		lower = lower[i+len(lowerOld):]
	}
}
