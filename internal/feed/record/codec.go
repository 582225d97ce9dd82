package record

import "strings"

// Flat encoding used when structured values travel through delimited output:
// list items join on "||", row fields join on "##" with "ck:::value" pairs.
const (
	itemSep  = "||"
	fieldSep = "##"
	kvSep    = ":::"
)

// EncodeRow flattens one row to "k1:::v1##k2:::v2".
func EncodeRow(row Row) string {
	parts := make([]string, 0, len(row.Keys))
	for _, key := range row.Keys {
		parts = append(parts, key+kvSep+row.Values[key])
	}
	return strings.Join(parts, fieldSep)
}

// EncodeRows flattens a row list to its wire form, one "||" segment per row.
func EncodeRows(rows []Row) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, EncodeRow(row))
	}
	return strings.Join(parts, itemSep)
}

// DecodeRows parses the flat form back into rows. Empty segments and fields
// without the key marker are dropped rather than treated as errors.
func DecodeRows(s string) []Row {
	if s == "" {
		return nil
	}
	var rows []Row
	for _, seg := range strings.Split(s, itemSep) {
		if seg == "" {
			continue
		}
		row := NewRow()
		for _, field := range strings.Split(seg, fieldSep) {
			key, value, ok := strings.Cut(field, kvSep)
			if !ok || key == "" {
				continue
			}
			row.Set(key, value)
		}
		if len(row.Keys) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// EncodeList joins scalars with the "||" marker.
func EncodeList(items []string) string {
	return strings.Join(items, itemSep)
}

// DecodeList splits the "||" form, dropping empty segments.
func DecodeList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, seg := range strings.Split(s, itemSep) {
		if seg != "" {
			items = append(items, seg)
		}
	}
	return items
}

// Flatten renders any value as a single scalar using the flat encoding.
func Flatten(v Value) string {
	switch v.Kind {
	case KindList:
		return EncodeList(v.List)
	case KindRows:
		return EncodeRows(v.Rows)
	default:
		return v.Scalar
	}
}
