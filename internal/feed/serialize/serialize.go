// Package serialize renders mapped products into the channel's wire format.
// Every serializer follows the same lifecycle: Begin writes (or repairs) the
// file root, Append adds one batch without rewriting committed ones, Finalize
// closes the run.
package serialize

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"feedforge/internal/feed/channels"
	"feedforge/internal/models"
)

type Serializer interface {
	Begin() error
	Append(items []*channels.Mapped) error
	Finalize() error
}

// New picks the serializer for the feed's file format.
func New(path string, feed models.Feed, schema *channels.Schema) (Serializer, error) {
	switch feed.FileFormat {
	case models.FileFormatXML:
		return newXMLSerializer(path, feed, schema), nil
	case models.FileFormatCSV:
		return newDelimitedSerializer(path, feed, schema, ','), nil
	case models.FileFormatTSV:
		return newDelimitedSerializer(path, feed, schema, '\t'), nil
	case models.FileFormatTXT:
		delim := ','
		// full rune, not the first byte: delimiters can be multi-byte UTF-8
		if r, _ := utf8.DecodeRuneInString(feed.Delimiter); r != utf8.RuneError {
			delim = r
		}
		return newDelimitedSerializer(path, feed, schema, delim), nil
	default:
		return nil, fmt.Errorf("unsupported file format %q", feed.FileFormat)
	}
}

// ensureDir creates the feed file's directory on demand; missing directories
// self-heal instead of failing the batch.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
