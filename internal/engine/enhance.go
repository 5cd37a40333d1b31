package engine

import (
	"regexp"
	"strings"
)

// Enhanced pattern extraction: a fixed battery of regular expressions run
// over the whole block text (asterisks already stripped) to backfill
// fields that direct line parsing missed. Common causes are multi-line
// "LABEL\nVALUE" layouts, stray formatting characters, and misspellings
// like "ACNT. N0." for "ACCT. NO.".
//
// The battery is an ordered list of (pattern, key, acceptance) tuples
// grouped into per-field families; each family stops at its first
// accepted match and only ever fills a field that is still missing.

type enhancedPattern struct {
	re     *regexp.Regexp
	accept func(match string) bool
	clean  func(match string) string
}

type patternFamily struct {
	key      FieldKey
	patterns []enhancedPattern
}

// nonPersonWords disqualify a "name" match that actually captured an
// organization or bank line.
var nonPersonWords = []string{
	"BANK", "COOP", "CO-OP", "COOPERATIVE", "SOCIETY", "LTD", "LIMITED",
	"ENTERPRISE", "MPCS", "ACCOUNT", "ACCT", "PHONE",
}

var enhancedFamilies = []patternFamily{
	{
		key: KeyPhone,
		patterns: []enhancedPattern{
			{re: regexp.MustCompile(`(?i)(?:PHONE|GSM|MOBILE|TEL|CONTACT|CELL)[^0-9]{0,20}?(0\d{10})\b`)},
			{re: regexp.MustCompile(`(?m)^[ \t]*(0\d{10})[ \t]*$`)},
		},
	},
	{
		key: KeyAccount,
		patterns: []enhancedPattern{
			// Covers ACCT/ACCOUNT/ACNT and zero-for-O typos like "ACNT. N0.".
			{
				re:     regexp.MustCompile(`(?i)(?:ACCT|ACC?OUNT|ACNT|A[/-]C)\.?[ \t]*N?[O0]?\.?[^0-9]{0,20}?(\d{8,})`),
				accept: func(m string) bool { return len(m) >= 8 },
			},
			{
				re:     regexp.MustCompile(`(?m)^[ \t]*(\d{10})[ \t]*$`),
				accept: func(m string) bool { return len(m) == 10 },
			},
		},
	},
	{
		key: KeyBank,
		patterns: []enhancedPattern{
			{
				re:     regexp.MustCompile(`(?i)BANK[ \t]*NAME[ \t]*[:\-]?[ \t]*\n?[ \t]*([A-Za-z][A-Za-z .&'-]{1,40})`),
				accept: acceptBankMatch,
			},
			{
				re:     regexp.MustCompile(`(?i)\b([A-Z][A-Za-z.&'-]*(?:[ \t]+[A-Za-z.&'-]+){0,3}[ \t]+BANK)\b`),
				accept: func(m string) bool { return !strings.EqualFold(strings.TrimSpace(m), "BANK") },
			},
		},
	},
	{
		key: KeyName,
		patterns: []enhancedPattern{
			{
				re:     regexp.MustCompile(`(?i)(?:CEO[ \t]*)?NAME[ \t]*[:\-]?[ \t]*\n[ \t]*([A-Za-z][A-Za-z .'-]{2,50})`),
				accept: acceptPersonMatch,
			},
		},
	},
	{
		key: KeyOrgName,
		patterns: []enhancedPattern{
			{
				re: regexp.MustCompile(`(?im)^[ \t]*([A-Z0-9][A-Za-z0-9 .&'-]{2,60}?[ \t](?:MPCS|MULTIPURPOSE|COOPERATIVE|CO-?OP|SOCIETY|LTD|LIMITED|ENTERPRISES?))\b`),
			},
		},
	},
	{
		key: KeySex,
		patterns: []enhancedPattern{
			{
				re:    regexp.MustCompile(`(?i)\bSEX\b[^A-Za-z0-9]{0,6}(MALE|FEMALE|M|F)\b`),
				clean: func(m string) string { return genderWords[strings.ToUpper(m)] },
			},
			{
				re:    regexp.MustCompile(`(?i)\bGENDER\b[^A-Za-z0-9]{0,6}(MALE|FEMALE|M|F)\b`),
				clean: func(m string) string { return genderWords[strings.ToUpper(m)] },
			},
		},
	},
}

// enhanceFields backfills still-missing fields from the raw block text.
func enhanceFields(text string, fields map[FieldKey]string) {
	for _, family := range enhancedFamilies {
		if strings.TrimSpace(fields[family.key]) != "" {
			continue
		}
		for _, pat := range family.patterns {
			m := pat.re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			match := strings.TrimSpace(m[1])
			if match == "" {
				continue
			}
			if pat.accept != nil && !pat.accept(match) {
				continue
			}
			if pat.clean != nil {
				match = pat.clean(match)
			}
			fields[family.key] = match
			break
		}
	}
}

func acceptBankMatch(m string) bool {
	upper := strings.ToUpper(strings.TrimSpace(m))
	switch {
	case upper == "NAME", upper == "BANK":
		return false
	case strings.HasPrefix(upper, "ACCT"), strings.HasPrefix(upper, "ACCOUNT"),
		strings.HasPrefix(upper, "ACNT"), strings.HasPrefix(upper, "NO"):
		return false
	}
	return len(upper) >= 3
}

func acceptPersonMatch(m string) bool {
	upper := strings.ToUpper(m)
	for _, w := range nonPersonWords {
		if strings.Contains(upper, w) {
			return false
		}
	}
	return true
}
