package markdown

import (
	"html"
	"regexp"
	"strings"
)

// spanRe matches one inline span. Alternation order makes bold win over
// italic at the same position, and a single left-to-right pass keeps
// matches from overlapping or nesting.
var spanRe = regexp.MustCompile("`([^`]+)`" + `|\*\*(.+?)\*\*|\*([^*\s][^*]*)\*|\[([^\]]+)\]\(([^)\s]+)\)`)

// Inline escapes s and renders bold, italic, inline code and link spans as HTML.
func Inline(s string) string {
	escaped := html.EscapeString(s)
	return spanRe.ReplaceAllStringFunc(escaped, func(match string) string {
		m := spanRe.FindStringSubmatch(match)
		switch {
		case m[1] != "":
			return "<code>" + m[1] + "</code>"
		case m[2] != "":
			return "<strong>" + m[2] + "</strong>"
		case m[3] != "":
			return "<em>" + m[3] + "</em>"
		case m[4] != "":
			if !SafeURL(html.UnescapeString(m[5])) {
				return m[4]
			}
			return `<a href="` + m[5] + `" target="_blank" rel="noopener noreferrer">` + m[4] + "</a>"
		}
		return match
	})
}

// SafeURL accepts http(s), mailto and relative URLs.
func SafeURL(u string) bool {
	u = strings.TrimSpace(u)
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	for _, scheme := range []string{"http://", "https://", "mailto:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return !strings.Contains(lower, ":")
}
