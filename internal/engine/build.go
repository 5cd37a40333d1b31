package engine

import (
	"regexp"
	"strings"
)

// Record builder: converts one block of lines into a field map. Direct
// KEY: VALUE parsing handles the well-formed lines; everything else goes
// through continuation handling, priority-ordered orphaned-value
// matching, and finally the regex backfill battery in enhance.go.

// genderWords maps bare gender tokens to their rendered value.
var genderWords = map[string]string{
	"MALE": "Male", "FEMALE": "Female", "M": "Male", "F": "Female",
}

// bankKeywords recognize a bare bank-name line. Major Nigerian banks plus
// the generic markers.
var bankKeywords = []string{
	"FIRST BANK", "GTBANK", "GTB", "GT BANK", "UBA", "ZENITH", "ACCESS",
	"UNION BANK", "FIDELITY", "FCMB", "STERLING", "WEMA", "POLARIS",
	"KEYSTONE", "ECOBANK", "STANBIC", "HERITAGE", "UNITY BANK", "JAIZ",
	"PROVIDUS", "TITAN", "GLOBUS", "OPAY", "PALMPAY", "KUDA", "MONIEPOINT",
	"MICROFINANCE", "BANK", "PLC",
}

// orgSuffixes recognize a bare organization-name line.
var orgSuffixes = []string{
	"LTD", "LIMITED", "COOPERATIVE", "SOCIETY",
	"ENTERPRISE", "ENTERPRISES", "MPCS", "MULTIPURPOSE", "VENTURES",
}

var (
	// blockSexRE finds an explicit SEX declaration anywhere in a block,
	// including "SEX" on its own line with the gender below it.
	blockSexRE = regexp.MustCompile(`(?i)\bSEX\b[^A-Za-z0-9]{0,6}(MALE|FEMALE|M|F)\b`)

	phoneContextRE   = regexp.MustCompile(`(?i)\b(PHONE|GSM|MOBILE|TEL|CONTACT|CELL)\b`)
	accountContextRE = regexp.MustCompile(`(?i)(ACCT|ACC?OUNT|ACNT|A[/-]?C\b)`)

	titleTokenRE = regexp.MustCompile(`^[A-Za-z][A-Za-z.'-]*$`)
)

// Builder converts record blocks into field maps.
type Builder struct {
	cls *Classifier
}

// NewBuilder returns a Builder using the given classifier for orphan
// detection.
func NewBuilder(cls *Classifier) *Builder {
	return &Builder{cls: cls}
}

// Build extracts a field map from a block. It returns nil when the block
// yields fewer than two populated fields; such blocks are noise, not
// errors.
func (b *Builder) Build(block []string) map[FieldKey]string {
	if len(block) == 0 {
		return nil
	}

	fields := make(map[FieldKey]string)
	text := strings.ReplaceAll(strings.Join(block, "\n"), "*", "")

	// Seed SEX from an explicit declaration before line-by-line parsing,
	// so a mangled "SEX" line elsewhere cannot shadow it.
	if g := scanBlockSex(text, block); g != "" {
		fields[KeySex] = g
	}

	var pending FieldKey
	for i, line := range block {
		key, value, ok := ParseLine(line)
		if ok {
			norm := NormalizeKey(key)
			if value == "" {
				// Key present, value absent: the value may be on the
				// next line.
				pending = norm
				continue
			}
			b.setField(fields, norm, cleanValue(norm, value))
			pending = ""
			continue
		}

		if pending != "" {
			b.setField(fields, pending, cleanValue(pending, strings.Trim(line, "* ")))
			pending = ""
			continue
		}

		// A bare field label on its own line takes its value from the
		// line below it.
		if key, ok := bareFieldLabel(line); ok {
			pending = key
			continue
		}

		b.matchOrphan(fields, block, i)
	}

	enhanceFields(text, fields)

	populated := 0
	for _, v := range fields {
		if strings.TrimSpace(v) != "" {
			populated++
		}
	}
	if populated < 2 {
		return nil
	}
	return fields
}

// setField applies the overwrite policy: first writer wins, except that
// empty values are always replaceable, a non-gender SEX value yields to a
// real one, and a BANK value that is a stray gender word or implausibly
// short yields to a better candidate.
func (b *Builder) setField(fields map[FieldKey]string, key FieldKey, value string) {
	value = strings.TrimSpace(value)
	existing, present := fields[key]
	if !present || existing == "" {
		fields[key] = value
		return
	}
	switch key {
	case KeySex:
		if genderWords[strings.ToUpper(existing)] == "" && value != "" {
			fields[key] = value
		}
	case KeyBank:
		if bankValueReplaceable(existing) && value != "" {
			fields[key] = value
		}
	}
}

func bankValueReplaceable(v string) bool {
	if len(v) < 3 {
		return true
	}
	_, isGender := genderWords[strings.ToUpper(strings.TrimSpace(v))]
	return isGender
}

// matchOrphan routes a bare value line to a field. Rules run in priority
// order; the first that fires consumes the line.
func (b *Builder) matchOrphan(fields map[FieldKey]string, block []string, i int) {
	line := strings.Trim(strings.TrimSpace(block[i]), "*")
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	var prev, next string
	if i > 0 {
		prev = block[i-1]
	}
	if i+1 < len(block) {
		next = block[i+1]
	}
	digits := compactDigits(line)
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, line)
	allDigits := compact != "" && digitsOnlyRE.MatchString(compact)

	// a. Bare gender token.
	if g, ok := genderWords[strings.ToUpper(line)]; ok {
		if fields[KeySex] == "" {
			fields[KeySex] = g
		}
		return
	}

	// b. Bank name, by keyword or by a neighboring line mentioning one.
	if isBankName(line) || (hasLetter(line) && !allDigits && neighborMentionsBank(prev, next)) {
		if fields[KeyBank] == "" || bankValueReplaceable(fields[KeyBank]) {
			fields[KeyBank] = line
		}
		return
	}

	// c. Exactly eleven digits is a phone number.
	if allDigits && len(digits) == 11 &&
		(fields[KeyPhone] == "" || phoneContextRE.MatchString(prev)) {
		fields[KeyPhone] = digits
		return
	}

	// d. A long digit run with account context nearby.
	if allDigits && len(digits) >= 8 && fields[KeyAccount] == "" &&
		(accountContextRE.MatchString(line) || accountContextRE.MatchString(prev)) {
		fields[KeyAccount] = digits
		return
	}

	// e. A short title-like token after a name-labeled line extends the
	// person name across lines.
	if isTitleLike(line) && prevLineIsNameLabel(prev) {
		if fields[KeyName] == "" {
			fields[KeyName] = line
		} else {
			fields[KeyName] = fields[KeyName] + " " + line
		}
		return
	}

	// f. Organization suffix keyword.
	if hasOrgSuffix(line) {
		if fields[KeyOrgName] == "" {
			fields[KeyOrgName] = line
		}
		return
	}

	// g. Generic fallback: hand the value to the best-matching field
	// that is still missing, in the same priority order as above.
	b.assignFallback(fields, line, digits, allDigits)
}

// assignFallback is the last-resort orphan assignment.
func (b *Builder) assignFallback(fields map[FieldKey]string, line, digits string, allDigits bool) {
	for _, key := range CanonicalKeys {
		if strings.TrimSpace(fields[key]) != "" {
			continue
		}
		switch key {
		case KeySex:
			if g, ok := genderWords[strings.ToUpper(line)]; ok {
				fields[key] = g
				return
			}
		case KeyBank:
			if isBankName(line) {
				fields[key] = line
				return
			}
		case KeyPhone:
			if allDigits && len(digits) == 11 {
				fields[key] = digits
				return
			}
		case KeyAccount:
			if allDigits && len(digits) >= 8 {
				fields[key] = digits
				return
			}
		case KeyName:
			if isTitleLike(line) && !hasOrgSuffix(line) {
				fields[key] = line
				return
			}
		case KeyOrgName:
			if hasOrgSuffix(line) {
				fields[key] = line
				return
			}
		case KeyEmail:
			if strings.Contains(line, "@") && !strings.Contains(line, " ") {
				fields[key] = line
				return
			}
		}
	}
}

// scanBlockSex finds an explicit gender declaration, falling back to a
// bare MALE/FEMALE token within the last three lines.
func scanBlockSex(text string, block []string) string {
	if m := blockSexRE.FindStringSubmatch(text); m != nil {
		return genderWords[strings.ToUpper(m[1])]
	}
	start := len(block) - 3
	if start < 0 {
		start = 0
	}
	for _, line := range block[start:] {
		tok := strings.ToUpper(strings.Trim(strings.TrimSpace(line), "*"))
		if tok == "MALE" || tok == "FEMALE" {
			return genderWords[tok]
		}
	}
	return ""
}

// cleanValue strips decorations and renders gender values consistently.
func cleanValue(key FieldKey, value string) string {
	value = strings.TrimSpace(strings.Trim(strings.TrimSpace(value), "*"))
	if key == KeySex {
		if g, ok := genderWords[strings.ToUpper(value)]; ok {
			return g
		}
	}
	return value
}

// bareLabels are exact label spellings that appear alone on a line with
// the value on the next line. A real value line ("FIRST BANK") never
// matches because only exact label phrases are listed.
var bareLabels = map[string]FieldKey{
	"NAME": KeyName, "CEO NAME": KeyName, "FULL NAME": KeyName,
	"CO-OP NAME": KeyOrgName, "COOP NAME": KeyOrgName, "COOPERATIVE NAME": KeyOrgName,
	"PHONE": KeyPhone, "PHONE NO": KeyPhone, "PHONE NUMBER": KeyPhone,
	"GSM": KeyPhone, "GSM NO": KeyPhone, "MOBILE": KeyPhone, "TEL": KeyPhone,
	"BANK": KeyBank, "BANK NAME": KeyBank,
	"ACCT": KeyAccount, "ACCT NO": KeyAccount, "ACCOUNT": KeyAccount,
	"ACCOUNT NO": KeyAccount, "ACCOUNT NUMBER": KeyAccount, "ACNT NO": KeyAccount,
	"A/C NO":  KeyAccount,
	"SEX":     KeySex,
	"GENDER":  KeySex,
	"EMAIL":   KeyEmail,
	"ADDRESS": KeyAddress,
}

func bareFieldLabel(line string) (FieldKey, bool) {
	key, ok := bareLabels[cleanRawKey(line)]
	return key, ok
}

func isBankName(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range bankKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func isBareGender(line string) bool {
	tok := strings.ToUpper(strings.Trim(strings.TrimSpace(line), "*"))
	_, ok := genderWords[tok]
	return ok
}

func neighborMentionsBank(prev, next string) bool {
	return strings.Contains(strings.ToUpper(prev), "BANK") ||
		strings.Contains(strings.ToUpper(next), "BANK")
}

func prevLineIsNameLabel(prev string) bool {
	key, _, ok := ParseLine(prev)
	return ok && NormalizeKey(key) == KeyName
}

// isTitleLike reports whether the line reads as a short personal name:
// at most three alphabetic tokens.
func isTitleLike(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if !titleTokenRE.MatchString(w) {
			return false
		}
	}
	return true
}

func hasOrgSuffix(line string) bool {
	upper := strings.ToUpper(line)
	if strings.Contains(upper, "CO-OPERATIVE") {
		return true
	}
	for _, suffix := range orgSuffixes {
		if containsWord(upper, suffix) {
			return true
		}
	}
	return false
}
