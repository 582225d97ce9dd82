package serialize

import (
	"encoding/csv"
	"os"
	"strings"

	"feedforge/internal/feed/channels"
	"feedforge/internal/feed/record"
	"feedforge/internal/models"
)

// commaEscape is the literal token users put into mapping values to carry a
// comma through comma-delimited processing; the writer restores it.
const commaEscape = `\x2C`

// EscapeCommas protects literal commas in a value for comma-joined
// intermediate handling.
func EscapeCommas(s string) string {
	return strings.ReplaceAll(s, ",", commaEscape)
}

// UnescapeCommas restores escaped commas; EscapeCommas then UnescapeCommas is
// the identity.
func UnescapeCommas(s string) string {
	return strings.ReplaceAll(s, commaEscape, ",")
}

// delimitedSerializer writes CSV/TSV/TXT feeds: optional BOM, quoted header
// with `g:` prefixes stripped, then one row per product appended per batch.
type delimitedSerializer struct {
	path   string
	feed   models.Feed
	schema *channels.Schema
	delim  rune
	// column order is fixed by the first batch's mapping order
	header []string
}

func newDelimitedSerializer(path string, feed models.Feed, schema *channels.Schema, delim rune) *delimitedSerializer {
	return &delimitedSerializer{path: path, feed: feed, schema: schema, delim: delim}
}

func (s *delimitedSerializer) Begin() error {
	if err := ensureDir(s.path); err != nil {
		return err
	}
	// header is written together with the first batch once the column set is
	// known; Begin just truncates the previous run's file down to the BOM
	s.header = nil
	return os.WriteFile(s.path, []byte{0xEF, 0xBB, 0xBF}, 0o644)
}

func (s *delimitedSerializer) Append(items []*channels.Mapped) error {
	if len(items) == 0 {
		return nil
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		// self-heal a missing file mid-run
		if err := s.Begin(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	writeHeader := false
	if s.header == nil {
		// a resumed run keeps appending under the header the first batch wrote
		if info != nil && info.Size() > 3 {
			s.header = headerNames(items[0])
		} else {
			s.header = headerNames(items[0])
			writeHeader = true
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = s.delim
	if writeHeader {
		if err := w.Write(s.header); err != nil {
			return err
		}
	}
	for _, item := range items {
		row := make([]string, len(item.Order))
		for i, name := range item.Order {
			row[i] = UnescapeCommas(record.Flatten(item.Fields.Get(name)))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *delimitedSerializer) Finalize() error {
	return nil
}

// headerNames strips the g: namespace prefix, which only means something in
// the XML rendition.
func headerNames(item *channels.Mapped) []string {
	names := make([]string, len(item.Order))
	for i, name := range item.Order {
		names[i] = strings.TrimPrefix(name, "g:")
	}
	return names
}
