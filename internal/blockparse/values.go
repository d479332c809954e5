package blockparse

import (
	"regexp"
	"strings"
)

var quotedItem = regexp.MustCompile(`"([^"]+)"`)

// StripQuotes removes one layer of surrounding double quotes when both ends
// carry one. Interior quotes are left alone.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// RemoveQuotes deletes every double quote character.
func RemoveQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// QuotedItems returns the double-quoted substrings of s in order. Input
// with no quotes at all is split on whitespace instead.
func QuotedItems(s string) []string {
	matches := quotedItem.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return strings.Fields(s)
	}
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, m[1])
	}
	return items
}

// LastToken returns the last space separated token of s.
func LastToken(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Upper upper-cases s.
func Upper(s string) string {
	return strings.ToUpper(s)
}

// Chain composes transforms left to right.
func Chain(fns ...func(string) string) func(string) string {
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}
