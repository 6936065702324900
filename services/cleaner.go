package services

import (
	"strings"
	"unicode"

	"trendmoni/utils"
)

// AvailableNiches is the catalogue of niches offered at sign-up. Input
// matching one of these case-insensitively is canonicalised to it.
var AvailableNiches = []string{"Fashion", "Tech", "Education", "Food"}

// Cleaner normalises user-supplied niche lists into ordered sets.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanNiches trims and collapses whitespace, drops empty entries and
// duplicates (case-insensitive), and keeps first-seen order.
func (c *Cleaner) CleanNiches(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	result := make([]string, 0, len(raw))

	for _, r := range raw {
		niche := canonicalNiche(normaliseText(r))
		if niche == "" {
			continue
		}

		key := strings.ToLower(niche)
		if _, dup := seen[key]; dup {
			c.logger.Debug("[cleaner] Duplicate niche skipped: %s", niche)
			continue
		}
		seen[key] = struct{}{}
		result = append(result, niche)
	}

	if len(result) != len(raw) {
		c.logger.Debug("[cleaner] Cleaned niches %d → %d", len(raw), len(result))
	}
	return result
}

func canonicalNiche(s string) string {
	for _, n := range AvailableNiches {
		if strings.EqualFold(n, s) {
			return n
		}
	}
	return s
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// sameNiches reports whether a and b hold the same niches in the same order.
func sameNiches(a, b []string) bool {
	return nicheKey(a) == nicheKey(b)
}

func nicheKey(niches []string) string {
	return strings.Join(niches, "\x1f")
}
