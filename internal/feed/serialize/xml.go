package serialize

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"

	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// xmlSerializer writes channel-shaped XML. The whole document lives in one
// file; Append splices new items in front of the closing root tags so
// committed batches are never rewritten.
type xmlSerializer struct {
	path   string
	feed   models.Feed
	schema *channels.Schema
}

func newXMLSerializer(path string, feed models.Feed, schema *channels.Schema) *xmlSerializer {
	return &xmlSerializer{path: path, feed: feed, schema: schema}
}

func (s *xmlSerializer) Begin() error {
	if err := ensureDir(s.path); err != nil {
		return err
	}
	open, closing := s.rootShape()
	return os.WriteFile(s.path, []byte(open+closing), 0o644)
}

func (s *xmlSerializer) Append(items []*channels.Mapped) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		data = nil
	}
	_, closing := s.rootShape()
	idx := strings.LastIndex(string(data), closing)
	if idx < 0 {
		// missing or corrupt root: recreate and retry once
		if err := s.Begin(); err != nil {
			return err
		}
		data, err = os.ReadFile(s.path)
		if err != nil {
			return err
		}
		idx = strings.LastIndex(string(data), closing)
		if idx < 0 {
			return fmt.Errorf("feed file %s: root element not found after recreate", s.path)
		}
	}

	var b strings.Builder
	b.Write(data[:idx])
	for _, item := range items {
		s.writeItem(&b, item)
	}
	b.WriteString(string(data[idx:]))
	return os.WriteFile(s.path, []byte(b.String()), 0o644)
}

func (s *xmlSerializer) Finalize() error {
	return nil
}

// rootShape returns the opening document text and the closing tags Append
// splices against.
func (s *xmlSerializer) rootShape() (string, string) {
	const prolog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	switch s.schema.Taxonomy {
	case channels.TaxonomyGoogleShopping:
		return prolog +
				`<rss version="2.0" xmlns:g="http://base.google.com/ns/1.0">` + "\n" +
				"<channel>\n" +
				"<title>" + escape(s.feed.Name) + "</title>\n" +
				"<description>Product feed</description>\n",
			"</channel>\n</rss>\n"
	case channels.TaxonomyYandex:
		return prolog +
				`<yml_catalog date="` + time.Now().Format("2006-01-02 15:04") + `">` + "\n" +
				"<shop>\n" +
				"<name>" + escape(s.feed.Name) + "</name>\n" +
				"<currencies><currency id=\"" + escape(s.feed.Currency) + "\" rate=\"1\"/></currencies>\n" +
				"<offers>\n",
			"</offers>\n</shop>\n</yml_catalog>\n"
	case channels.TaxonomyHeureka:
		return prolog + "<SHOP>\n", "</SHOP>\n"
	case channels.TaxonomyZbozi:
		return prolog + `<SHOP xmlns="http://www.zbozi.cz/ns/offer/1.0">` + "\n", "</SHOP>\n"
	case channels.TaxonomyMall:
		return prolog + "<ITEMS>\n", "</ITEMS>\n"
	case channels.TaxonomySkroutz:
		return prolog +
				"<mywebstore>\n" +
				"<created_at>" + time.Now().Format("2006-01-02 15:04") + "</created_at>\n" +
				"<products>\n",
			"</products>\n</mywebstore>\n"
	case channels.TaxonomyFruugo:
		return prolog + "<Products>\n", "</Products>\n"
	default:
		return prolog + "<products>\n", "</products>\n"
	}
}

func (s *xmlSerializer) writeItem(b *strings.Builder, item *channels.Mapped) {
	switch s.schema.Taxonomy {
	case channels.TaxonomyGoogleShopping:
		b.WriteString("<item>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</item>\n")
	case channels.TaxonomyYandex:
		available := item.Meta["available"]
		if available == "" {
			available = "true"
		}
		b.WriteString(`<offer id="` + escape(item.Meta["id"]) + `"`)
		if group := item.Meta["group_id"]; group != "" {
			b.WriteString(` group_id="` + escape(group) + `"`)
		}
		b.WriteString(` available="` + escape(available) + `">` + "\n")
		s.writeFields(b, item, map[string]bool{"id": true})
		b.WriteString("</offer>\n")
	case channels.TaxonomyHeureka, channels.TaxonomyZbozi:
		b.WriteString("<SHOPITEM>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</SHOPITEM>\n")
	case channels.TaxonomyMall:
		b.WriteString("<ITEM>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</ITEM>\n")
	case channels.TaxonomySkroutz:
		b.WriteString("<product>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</product>\n")
	case channels.TaxonomyFruugo:
		b.WriteString("<Product>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</Product>\n")
	default:
		b.WriteString("<product>\n")
		s.writeFields(b, item, nil)
		b.WriteString("</product>\n")
	}
}

func (s *xmlSerializer) writeFields(b *strings.Builder, item *channels.Mapped, skip map[string]bool) {
	for _, name := range item.Order {
		if skip[name] {
			continue
		}
		v := item.Fields.Get(name)
		if v.IsEmpty() {
			continue
		}
		switch v.Kind {
		case record.KindRows:
			s.writeRows(b, name, v.Rows)
		case record.KindList:
			// repeatable attributes: one element per entry
			for _, entry := range v.List {
				writeElement(b, name, entry)
			}
		default:
			s.writeScalar(b, name, v.Scalar)
		}
	}
}

func (s *xmlSerializer) writeScalar(b *strings.Builder, name, value string) {
	// custom attributes become PARAM blocks on the Czech marketplaces
	if _, known := s.schema.Attribute(name); !known {
		switch s.schema.Taxonomy {
		case channels.TaxonomyHeureka, channels.TaxonomyZbozi:
			b.WriteString("<PARAM><PARAM_NAME>" + escape(name) + "</PARAM_NAME><VAL>" + escape(value) + "</VAL></PARAM>\n")
			return
		case channels.TaxonomyMall:
			b.WriteString("<PARAM><NAME>" + escape(name) + "</NAME><VALUE>" + escape(value) + "</VALUE></PARAM>\n")
			return
		}
	}
	writeElement(b, name, value)
}

// writeRows decodes structured values into channel-specific child nodes.
func (s *xmlSerializer) writeRows(b *strings.Builder, name string, rows []record.Row) {
	switch {
	case s.schema.Taxonomy == channels.TaxonomyGoogleShopping && name == "g:shipping":
		for _, row := range rows {
			b.WriteString("<g:shipping>\n")
			writeOptElement(b, "g:country", row.Get("country"))
			writeOptElement(b, "g:region", row.Get("region"))
			writeOptElement(b, "g:postal_code", row.Get("postal_code"))
			writeOptElement(b, "g:service", row.Get("service"))
			writeOptElement(b, "g:price", withCurrency(row.Get("price"), s.feed.Currency))
			b.WriteString("</g:shipping>\n")
		}
	case s.schema.Taxonomy == channels.TaxonomyGoogleShopping && name == "g:product_detail":
		for _, row := range rows {
			b.WriteString("<g:product_detail>\n")
			writeOptElement(b, "g:section_name", row.Get("section"))
			writeOptElement(b, "g:attribute_name", row.Get("attribute"))
			writeOptElement(b, "g:attribute_value", row.Get("value"))
			b.WriteString("</g:product_detail>\n")
		}
	case s.schema.Taxonomy == channels.TaxonomyHeureka || s.schema.Taxonomy == channels.TaxonomyZbozi:
		if name == "DELIVERY" || name == "g:shipping" {
			for _, row := range rows {
				b.WriteString("<DELIVERY><DELIVERY_ID>" + escape(row.Get("service")) +
					"</DELIVERY_ID><DELIVERY_PRICE_VAT>" + escape(row.Get("price")) +
					"</DELIVERY_PRICE_VAT></DELIVERY>\n")
			}
			return
		}
		fallthrough
	default:
		for _, row := range rows {
			b.WriteString("<" + name + ">\n")
			for _, key := range row.Keys {
				writeOptElement(b, key, row.Values[key])
			}
			b.WriteString("</" + name + ">\n")
		}
	}
}

func writeElement(b *strings.Builder, name, value string) {
	b.WriteString("<" + name + ">" + escape(value) + "</" + name + ">\n")
}

func writeOptElement(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	writeElement(b, name, value)
}

func withCurrency(price, currency string) string {
	if price == "" || currency == "" || strings.Contains(price, " ") {
		return price
	}
	return price + " " + currency
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
