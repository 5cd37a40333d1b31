// Package engine extracts structured member records from noisy,
// copy-pasted roster text.
//
// The pipeline identifies discrete records without any external service:
// - Noise filtering (boilerplate, instructions, decorative lines)
// - Key/value line parsing with ordered separator strategies
// - Record boundary detection with orphaned-value reattachment
// - Regex backfill for fields that arrive unlabeled or misspelled
//
// Every step is a pure in-memory transformation; the engine performs no
// I/O and never fails on any string input.
package engine

import (
	"strings"
)

// LineClass is the classification of a single trimmed input line.
type LineClass int

const (
	// LineNoise carries no record data (headers, instructions, emoji).
	LineNoise LineClass = iota
	// LineKeyValue is a parseable KEY/VALUE pair.
	LineKeyValue
	// LineOrphan is a bare value with no recognizable key.
	LineOrphan
)

// noiseSubstrings flags organizational boilerplate and instructional
// phrases. Matched case-insensitively anywhere in the line.
var noiseSubstrings = []string{
	"PERSONAL DATA",
	"COOPERATIVE OWNERS",
	"SEND YOUR DETAILS",
	"TILL 3PM",
	"DON'T SEND",
	"DONT SEND",
	"OTHER NUMBERS",
	"MESSAGE WAS DELETED",
	"MEDIA OMITTED",
	"INSTRUCTIONS",
	"NOTE:",
	"PLEASE",
	"PLZ",
	"KINDLY",
	"THANK YOU",
	"GOD BLESS",
	"🙏", "✅", "📌", "👉", "❗", "⚠", "😊", "🔥",
}

// orgKeywords mark a line as organizational boilerplate when it is a long
// shouted header, and also signal organization names during segmentation.
var orgKeywords = []string{
	"COOPERATIVE", "CO-OPERATIVE", "SOCIETY", "LIMITED", "MULTIPURPOSE", "MPCS",
}

// fieldWords are fragments that identify a recognized field label.
var fieldWords = []string{
	"NAME", "PHONE", "GSM", "MOBILE", "TEL", "CONTACT", "CELL",
	"BANK", "ACCT", "ACCOUNT", "ACNT", "A/C", "A-C",
	"SEX", "GENDER", "EMAIL", "E-MAIL", "ADDRESS", "ID",
	"CO-OP", "COOP", "COOPERATIVE", "NUMBER",
}

// genericFieldWords are short fragments accepted only when the whole key
// stays short, to avoid matching prose.
var genericFieldWords = []string{"NAME", "PHONE", "BANK", "ACCT", "SEX"}

// separators considered when probing for a key/value shape. Order follows
// the line parser's strategy order.
var keySeparators = []string{":", ";", " - ", ". "}

// Classifier tags lines as noise, key/value, or orphaned bare values.
// Classification is a pure function of the line content; the zero value
// is ready to use.
type Classifier struct{}

// Classify tags a single trimmed line. A line that independently
// qualifies as a key/value pair is never noise, regardless of content.
func (c *Classifier) Classify(line string) LineClass {
	line = strings.TrimSpace(line)
	if line == "" {
		return LineNoise
	}
	if c.isKeyValueCandidate(line) {
		return LineKeyValue
	}
	if c.isNoise(line) {
		return LineNoise
	}
	return LineOrphan
}

// isKeyValueCandidate reports whether the line has a separator with a
// recognized field label on the left.
func (c *Classifier) isKeyValueCandidate(line string) bool {
	key, ok := splitCandidateKey(line)
	if !ok {
		return false
	}
	upper := strings.ToUpper(key)
	for _, w := range fieldWords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	if len(key) <= 30 {
		for _, w := range genericFieldWords {
			if strings.Contains(upper, w) {
				return true
			}
		}
	}
	return false
}

// splitCandidateKey returns the text left of the earliest separator.
func splitCandidateKey(line string) (string, bool) {
	best := -1
	for _, sep := range keySeparators {
		if idx := strings.Index(line, sep); idx > 0 {
			if best == -1 || idx < best {
				best = idx
			}
		}
	}
	if best <= 0 {
		return "", false
	}
	key := strings.TrimSpace(line[:best])
	if key == "" {
		return "", false
	}
	return key, true
}

func (c *Classifier) isNoise(line string) bool {
	upper := strings.ToUpper(line)

	for _, pat := range noiseSubstrings {
		if strings.Contains(upper, pat) {
			return true
		}
	}

	// Shouted organizational headers: long, upper-case, no separator.
	if line == upper && len(line) > 20 && !containsAnySeparator(line) {
		for _, kw := range orgKeywords {
			if strings.Contains(upper, kw) {
				return true
			}
		}
	}

	// Dense punctuation reads as prose or decoration, not data.
	if len(line) > 10 {
		punct := 0
		for _, r := range line {
			switch r {
			case '.', ',', '!', '?', ';':
				punct++
			}
		}
		if float64(punct)/float64(len(line)) > 0.3 {
			return true
		}
	}

	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "serial") {
		return true
	}
	if strings.Contains(lower, "correct") || strings.Contains(lower, "spelling") {
		return true
	}

	return false
}

func containsAnySeparator(line string) bool {
	return strings.ContainsAny(line, ":;=") || strings.Contains(line, " - ") || strings.Contains(line, ". ")
}
