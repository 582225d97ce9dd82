package resolver

import (
	"regexp"
	"strings"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	// element-like markup only, so a literal "< 3" or "< M >" stays text
	tagRe   = regexp.MustCompile(`(?s)</?[a-zA-Z][^>]*>|<![^>]*>`)
	spaceRe = regexp.MustCompile(`[ \t]{2,}`)
)

// SanitizeHTML strips markup down to feed-safe text: script/style blocks go
// away with their content, remaining tags become spaces so words don't
// concatenate, entities are normalized and characters outside the XML 1.0
// range are dropped. Sanitizing already-sanitized text is a no-op.
//
// Double-encoded input can decode into fresh markup, so the pass repeats
// until the text is stable. Every changing pass shrinks the string, which
// bounds the loop.
func SanitizeHTML(s string) string {
	for {
		next := sanitizePass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func sanitizePass(s string) string {
	if s == "" {
		return ""
	}
	s = decodeBasicEntities(s)
	s = scriptRe.ReplaceAllString(s, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = stripInvalidChars(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// decodeBasicEntities folds the entities WYSIWYG editors leave behind into
// plain text; XML escaping happens again at serialization time.
func decodeBasicEntities(s string) string {
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)
	return replacer.Replace(s)
}

// stripInvalidChars keeps TAB/LF/CR and the XML 1.0 character planes
// U+0020–U+D7FF and U+E000–U+FFFD.
func stripInvalidChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r >= 0x20 && r <= 0xD7FF:
			b.WriteRune(r)
		case r >= 0xE000 && r <= 0xFFFD:
			b.WriteRune(r)
		case r >= 0x10000 && r <= 0x10FFFF:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TruncateTitle caps a title at limit runes for length-constrained channels.
func TruncateTitle(title string, limit int) string {
	if limit <= 0 {
		return title
	}
	runes := []rune(title)
	if len(runes) <= limit {
		return title
	}
	return strings.TrimSpace(string(runes[:limit]))
}
