package channels

import (
	"sort"

	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// Mapped is the channel-shaped output for one product: field values keyed by
// the channel's attribute names, in mapping order.
type Mapped struct {
	Order  []string
	Fields record.Record
	// Meta carries values serializers need outside the mapped attribute list,
	// e.g. Yandex offer id/group_id/available node attributes.
	Meta map[string]string
}

func (m *Mapped) set(name string, v record.Value) {
	if !m.Fields.Has(name) {
		m.Order = append(m.Order, name)
	}
	m.Fields.Set(name, v)
}

// Structured fields stay as lists/rows so XML serializers can emit child
// nodes; delimited serializers flatten them at the very end.
func structuredField(internal string) bool {
	switch internal {
	case "shipping", "reviews", "product_tag", "product_detail",
		"product_highlight", "consumer_notice":
		return true
	}
	return false
}

// Map applies the feed's ordered attribute mappings to a resolved record.
// Static mappings emit their literal value; blank source fields fall back to
// the schema's suggested internal field; prefix/suffix decorate non-empty
// scalars only.
func Map(mappings []models.AttributeMapping, schema *Schema, rec record.Record) *Mapped {
	ordered := make([]models.AttributeMapping, len(mappings))
	copy(ordered, mappings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	out := &Mapped{Fields: record.Record{}, Meta: map[string]string{
		"id":        rec.GetString("id"),
		"group_id":  rec.GetString("item_group_id"),
		"available": rec.GetString("availability"),
	}}
	for _, m := range ordered {
		if m.Attribute == "" {
			continue
		}
		if m.Static {
			out.set(m.Attribute, record.String(m.Prefix+m.SourceField+m.Suffix))
			continue
		}

		source := m.SourceField
		if source == "" {
			if attr, ok := schema.Attribute(m.Attribute); ok {
				source = attr.Suggest
			}
		}
		if source == "" {
			continue
		}

		v := rec.Get(source)
		if structuredField(source) {
			out.set(m.Attribute, v)
			continue
		}
		s := record.Flatten(v)
		if s != "" && (m.Prefix != "" || m.Suffix != "") {
			s = m.Prefix + s + m.Suffix
		}
		out.set(m.Attribute, record.String(s))
	}
	return out
}
