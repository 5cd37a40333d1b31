package engine

import (
	"regexp"
	"strings"
)

// Record segmenter: walks the noise-filtered line stream and groups lines
// into blocks, one block per logical record. Pasted rosters rarely carry
// clean record separators, so boundaries are inferred from the configured
// start field, from fields repeating, and from an explicit end-of-record
// field. Blocks that turn out to be stray continuation lines (a bank name
// on its own line) are merged back into the preceding block.

// explicitSexRE is the conservative record-end detector: it requires an
// explicit SEX label, not a bare gender word, so a lone "MALE" line never
// terminates a record early.
var explicitSexRE = regexp.MustCompile(`(?i)\bSEX\b\s*[:\-]?\s*\*{0,2}\s*(MALE|FEMALE|M|F)\b`)

// longDigitRunRE spots bare account-number lines when deciding whether a
// block is an orphaned fragment.
var longDigitRunRE = regexp.MustCompile(`^\*{0,2}\d[\d\s-]{6,}\d\*{0,2}$`)

// majorFields are the identity fields whose late arrival suggests a new
// record has started. Value fields (phone, bank, account) arrive in any
// order and never split a block on their own.
var majorFields = map[FieldKey]bool{
	KeyOrgName: true,
	KeyName:    true,
}

// Segmenter groups classified lines into record blocks.
type Segmenter struct {
	startLabel string
	endKey     FieldKey
	cls        *Classifier
}

// NewSegmenter builds a segmenter whose boundaries are the given start
// and end field names. The start field matches its label literally, so a
// start field of "NAME" does not fire on "CEO NAME" lines; the end field
// is matched by canonical key.
func NewSegmenter(startField, endField string, cls *Classifier) *Segmenter {
	return &Segmenter{
		startLabel: cleanRawKey(startField),
		endKey:     NormalizeKey(endField),
		cls:        cls,
	}
}

// Segment splits the filtered lines into record blocks.
func (s *Segmenter) Segment(lines []string) [][]string {
	var blocks [][]string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
	}

	for _, line := range lines {
		switch {
		case s.isStartLine(line) && len(current) > 0:
			flush()
			current = append(current, line)
		case s.isIntelligentBoundary(line, current):
			flush()
			current = append(current, line)
		default:
			current = append(current, line)
		}

		// A record-end field closes the block immediately, line included.
		if len(current) >= 2 && s.isEndLine(line) {
			flush()
		}
	}
	flush()

	return s.mergeOrphanBlocks(blocks)
}

// isStartLine reports whether the line's key matches the configured
// record-start field label.
func (s *Segmenter) isStartLine(line string) bool {
	key, _, ok := ParseLine(line)
	if !ok {
		return false
	}
	return cleanRawKey(key) == s.startLabel
}

// isEndLine applies the record-end condition. For a SEX end field the
// detector demands explicit "SEX: MALE" phrasing; for anything else the
// line must parse to the end field's key with a non-empty value.
func (s *Segmenter) isEndLine(line string) bool {
	if s.endKey == KeySex {
		return explicitSexRE.MatchString(line)
	}
	key, value, ok := ParseLine(line)
	return ok && value != "" && NormalizeKey(key) == s.endKey
}

// isIntelligentBoundary closes a block when a line strongly suggests a
// new record: an organization name arriving after the block already has
// one record's worth of lines, or a major field repeating in a block
// that should already be complete.
func (s *Segmenter) isIntelligentBoundary(line string, current []string) bool {
	if len(current) >= 3 && hasOrgIndicator(line) && !blockHasOrgIndicator(current) {
		return true
	}
	if len(current) >= 4 {
		key, _, ok := ParseLine(line)
		if ok {
			norm := NormalizeKey(key)
			if majorFields[norm] && !blockHasField(current, norm) {
				return true
			}
		}
	}
	return false
}

// mergeOrphanBlocks appends blocks that look like stray continuation
// fragments onto their predecessor, preserving original line order.
func (s *Segmenter) mergeOrphanBlocks(blocks [][]string) [][]string {
	var out [][]string
	for _, block := range blocks {
		if len(out) > 0 && s.isLikelyOrphanBlock(block) {
			out[len(out)-1] = append(out[len(out)-1], block...)
			continue
		}
		out = append(out, block)
	}
	return out
}

// isLikelyOrphanBlock flags a block that starts with a bare bank name,
// gender word, or digit run, or a short block with no organization name
// that contains at least one orphan line.
func (s *Segmenter) isLikelyOrphanBlock(block []string) bool {
	if len(block) == 0 {
		return false
	}
	first := strings.TrimSpace(block[0])
	if isBareGender(first) || isBankName(first) || longDigitRunRE.MatchString(first) {
		return true
	}
	if len(block) <= 3 && !blockHasOrgIndicator(block) {
		for _, line := range block {
			if s.cls.Classify(line) == LineOrphan {
				return true
			}
		}
	}
	return false
}

func hasOrgIndicator(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range append([]string{"CO-OP", "COOP", "LTD", "ENTERPRISE"}, orgKeywords...) {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	if key, _, ok := ParseLine(line); ok {
		return NormalizeKey(key) == KeyOrgName
	}
	return false
}

func blockHasOrgIndicator(block []string) bool {
	for _, line := range block {
		if hasOrgIndicator(line) {
			return true
		}
	}
	return false
}

func blockHasField(block []string, want FieldKey) bool {
	for _, line := range block {
		if key, _, ok := ParseLine(line); ok && NormalizeKey(key) == want {
			return true
		}
	}
	return false
}
