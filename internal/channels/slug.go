package channels

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// slugCode derives a deterministic pseudo product code from free-text parts
// (product name + variation) for rows that carry no SKU. The same inputs
// always hash to the same code, so re-imports keep product identities stable.
func slugCode(parts ...string) string {
	slug := slugify(strings.Join(parts, " "))
	if slug == "" {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(slug))
	return fmt.Sprintf("gen-%08x", h.Sum32())
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
