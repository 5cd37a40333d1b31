package engine

import (
	"regexp"
	"strings"
)

// Line parser: extracts a raw (key, value) pair from one line by trying
// an ordered set of separator strategies. Keys are returned raw; callers
// normalize them. A recognized key with an empty value is a valid result
// and is left for continuation/orphan handling downstream.

var (
	// "A/C NO 0123456789" with no colon. Zeros typed as the letter O and
	// stray periods are common in pasted rosters.
	acNoSpaceRE = regexp.MustCompile(`(?i)^\s*(A[/-]?C\.?\s*N[O0]\.?)\s+(\d[\d\s-]{5,}\d)\s*$`)

	// "<LABEL> 08012345678" space-separated label plus digit run.
	labelDigitsRE = regexp.MustCompile(`(?i)^\s*((?:PHONE|GSM|MOBILE|TEL|ACCT|ACC?OUNT|ACNT)(?:\s*N[O0]\.?)?)\s+(\d{7,})\s*$`)

	// Trailing digit run (>=8 digits) glued to an alphabetic label by a
	// bare period, e.g. "ACCT.NO.0123456789".
	gluedDigitsRE = regexp.MustCompile(`^\s*([^\d]*[A-Za-z][^\d]*?)\.(\d{8,})\s*$`)

	digitsOnlyRE = regexp.MustCompile(`^\d+$`)
)

// ParseLine extracts a raw key and value from a single line. ok is false
// when no strategy produced a plausible key.
func ParseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	if m := acNoSpaceRE.FindStringSubmatch(line); m != nil {
		return acceptPair(m[1], compactDigits(m[2]))
	}
	if m := labelDigitsRE.FindStringSubmatch(line); m != nil {
		return acceptPair(m[1], m[2])
	}

	if idx := strings.Index(line, ":"); idx > 0 {
		return acceptPair(line[:idx], line[idx+1:])
	}

	if idx := strings.Index(line, ";"); idx > 0 {
		if k, v, ok := acceptPair(line[:idx], line[idx+1:]); ok && keyHasFieldWord(k) {
			return k, v, true
		}
		return "", "", false
	}

	if idx := strings.Index(line, " - "); idx > 0 {
		if k, v, ok := acceptPair(line[:idx], line[idx+3:]); ok && keyHasFieldWord(k) {
			return k, v, true
		}
		return "", "", false
	}

	if strings.Contains(line, ". ") {
		return parsePeriodSeparated(line)
	}

	if m := gluedDigitsRE.FindStringSubmatch(line); m != nil {
		return acceptPair(strings.Trim(m[1], ". "), m[2])
	}

	return "", "", false
}

// parsePeriodSeparated handles "ACCT. NO. 0123456789" style lines where
// the period doubles as both abbreviation dot and separator.
func parsePeriodSeparated(line string) (string, string, bool) {
	parts := strings.Split(line, ". ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 2 {
		return acceptPair(parts[0], parts[1])
	}

	// Multi-part: prefer a numeric tail as the value. An 11-digit run is
	// a phone number; 8 or more digits is an account number.
	last := strings.TrimRight(parts[len(parts)-1], ".")
	if digits := compactDigits(last); digitsOnlyRE.MatchString(digits) && len(digits) >= 8 {
		key := strings.Join(parts[:len(parts)-1], " ")
		return acceptPair(key, digits)
	}

	// Fall back: the last alphabetic-looking segment is the value.
	for i := len(parts) - 1; i > 0; i-- {
		if hasLetter(parts[i]) {
			key := strings.Join(parts[:i], " ")
			value := strings.Join(parts[i:], ". ")
			return acceptPair(key, value)
		}
	}
	return "", "", false
}

// acceptPair validates the split: keys run 2-50 characters and must not
// contain known noise phrases. An empty value with a valid key is kept.
func acceptPair(key, value string) (string, string, bool) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if len(key) < 2 || len(key) > 50 {
		return "", "", false
	}
	upper := strings.ToUpper(key)
	for _, pat := range noiseSubstrings {
		if strings.Contains(upper, pat) {
			return "", "", false
		}
	}
	return key, value, true
}

func keyHasFieldWord(key string) bool {
	upper := strings.ToUpper(key)
	for _, w := range fieldWords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

func compactDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

func hasLetter(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}
