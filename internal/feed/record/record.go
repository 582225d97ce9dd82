// Package record holds the field set a product resolves to while it moves
// through the pipeline. A value is a scalar, a list of scalars, or a list of
// rows (string-keyed maps) — never anything deeper.
package record

import "strings"

type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindRows
)

// Row is one nested mapping, e.g. a single shipping entry or review. Keys
// holds insertion order so serialized output is stable.
type Row struct {
	Keys   []string
	Values map[string]string
}

func NewRow() Row {
	return Row{Values: map[string]string{}}
}

func (r *Row) Set(key, value string) {
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = value
}

func (r Row) Get(key string) string {
	return r.Values[key]
}

type Value struct {
	Kind   Kind
	Scalar string
	List   []string
	Rows   []Row
}

func String(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

func List(items []string) Value {
	return Value{Kind: KindList, List: items}
}

func Rows(rows []Row) Value {
	return Value{Kind: KindRows, Rows: rows}
}

// IsEmpty reports whether the value carries no content at all.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindList:
		return len(v.List) == 0
	case KindRows:
		return len(v.Rows) == 0
	default:
		return v.Scalar == ""
	}
}

// Strings returns the value as a flat list of scalars. Rows flatten to their
// encoded form so rule and filter matching can treat them uniformly.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindList:
		return v.List
	case KindRows:
		out := make([]string, len(v.Rows))
		for i, row := range v.Rows {
			out[i] = EncodeRow(row)
		}
		return out
	default:
		return []string{v.Scalar}
	}
}

// Record maps field names to values. Missing fields read as empty scalars.
type Record map[string]Value

func (r Record) Get(name string) Value {
	if v, ok := r[name]; ok {
		return v
	}
	return String("")
}

func (r Record) GetString(name string) string {
	v := r.Get(name)
	if v.Kind == KindScalar {
		return v.Scalar
	}
	return strings.Join(v.Strings(), "|")
}

func (r Record) Set(name string, v Value) {
	r[name] = v
}

func (r Record) SetString(name, s string) {
	r[name] = String(s)
}

func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Clone copies the record so filter evaluation can never leak a
// partially-rewritten record out of an excluded product.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		switch v.Kind {
		case KindList:
			list := make([]string, len(v.List))
			copy(list, v.List)
			out[k] = List(list)
		case KindRows:
			rows := make([]Row, len(v.Rows))
			for i, row := range v.Rows {
				nr := NewRow()
				for _, key := range row.Keys {
					nr.Set(key, row.Values[key])
				}
				rows[i] = nr
			}
			out[k] = Rows(rows)
		default:
			out[k] = v
		}
	}
	return out
}
