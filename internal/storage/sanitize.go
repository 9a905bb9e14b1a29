package storage

import "strings"

// sanitizeLikeToken escapes SQLite LIKE special characters so that name
// tokens only match literally. The percent signs joining tokens into a
// lookup pattern stay unescaped on purpose.
//
//	% matches any sequence of characters
//	_ matches any single character
//	\ is the escape character the queries declare via ESCAPE
func sanitizeLikeToken(token string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\", // Escape backslash first
		"%", "\\%",
		"_", "\\_",
	)
	return replacer.Replace(token)
}
