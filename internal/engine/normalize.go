package engine

import (
	"strings"
)

// FieldKey is a canonical field identifier. Unrecognized raw labels pass
// through uppercased and trimmed, so arbitrary strings are valid keys.
type FieldKey = string

// Canonical field keys.
const (
	KeyOrgName FieldKey = "ORG NAME"
	KeyName    FieldKey = "NAME"
	KeyPhone   FieldKey = "PHONE"
	KeyBank    FieldKey = "BANK"
	KeyAccount FieldKey = "ACCOUNT"
	KeySex     FieldKey = "SEX"
	KeyEmail   FieldKey = "EMAIL"
	KeyAddress FieldKey = "ADDRESS"
)

// CanonicalKeys lists every canonical field in orphan-assignment priority
// order (gender, bank, phone, account, person, organization, then the
// contact fields).
var CanonicalKeys = []FieldKey{
	KeySex, KeyBank, KeyPhone, KeyAccount, KeyName, KeyOrgName, KeyEmail, KeyAddress,
}

// normalizeRule maps a raw-key predicate to a canonical key. Rules are
// evaluated strictly in order; the first match wins. The order is
// load-bearing: "BANK NAME" must be tested as a bank-name label before
// the account rule can claim it.
type normalizeRule struct {
	name  string
	match func(key string) bool
	key   FieldKey
}

var normalizeRules = []normalizeRule{
	{
		name: "org_name",
		key:  KeyOrgName,
		match: func(k string) bool {
			if containsWord(k, "ORG") {
				return true
			}
			return containsAny(k, "CO-OP", "CO OP", "COOP", "COOPERATIVE",
				"ORGANIZATION", "ORGANISATION", "COMPANY", "NGO", "SOCIETY")
		},
	},
	{
		name: "person_name",
		key:  KeyName,
		match: func(k string) bool {
			if containsAny(k, "CEO", "PERSONAL NAME", "FULL NAME", "SURNAME", "FIRST NAME", "LAST NAME") {
				return true
			}
			// A bare NAME label is a person only when no other domain
			// word claims the key.
			if containsWord(k, "NAME") &&
				!containsAny(k, "BANK", "ACCT", "ACCOUNT", "ACNT", "A/C", "PHONE", "BUSINESS") {
				return true
			}
			return false
		},
	},
	{
		name: "phone",
		key:  KeyPhone,
		match: func(k string) bool {
			if hasAccountContext(k) || containsWord(k, "BANK") {
				return false
			}
			if containsAny(k, "PHONE", "GSM", "MOBILE", "TEL", "CONTACT", "CELL") {
				return true
			}
			return containsWord(k, "NUMBER") || containsWord(k, "NO")
		},
	},
	{
		name: "bank_name",
		key:  KeyBank,
		match: func(k string) bool {
			return containsWord(k, "BANK") && !hasAccountContext(k)
		},
	},
	{
		name: "account_no",
		key:  KeyAccount,
		match: func(k string) bool {
			return hasAccountContext(k)
		},
	},
	{
		name: "sex",
		key:  KeySex,
		match: func(k string) bool {
			return containsAny(k, "SEX", "GENDER")
		},
	},
	{
		name: "email",
		key:  KeyEmail,
		match: func(k string) bool {
			return containsAny(k, "EMAIL", "E-MAIL", "MAIL")
		},
	},
	{
		name: "address",
		key:  KeyAddress,
		match: func(k string) bool {
			return containsAny(k, "ADDRESS", "ADDR")
		},
	},
}

// NormalizeKey maps a raw field label to its canonical key, or passes it
// through uppercased and trimmed when nothing matches.
func NormalizeKey(raw string) FieldKey {
	key := cleanRawKey(raw)
	if key == "" {
		return ""
	}
	for _, rule := range normalizeRules {
		if rule.match(key) {
			return rule.key
		}
	}
	return key
}

// cleanRawKey uppercases, strips decorations and known noise prefixes,
// and collapses whitespace.
func cleanRawKey(raw string) string {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.Trim(key, "*_#.:- ")
	for _, prefix := range []string{"PERSONAL ", "CEO'S ", "CEOS ", "MY "} {
		if strings.HasPrefix(key, prefix) && key != strings.TrimSpace(prefix) {
			// Keep "PERSONAL NAME" intact for the person rule; strip the
			// prefix only when something meaningful remains after it.
			if prefix == "PERSONAL " && strings.TrimSpace(key[len(prefix):]) == "NAME" {
				break
			}
			key = strings.TrimSpace(key[len(prefix):])
		}
	}
	return strings.Join(strings.Fields(key), " ")
}

func hasAccountContext(k string) bool {
	return containsAny(k, "ACCT", "ACCOUNT", "ACNT", "A/C", "A-C", "AC NO", "A C")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// containsWord reports whether w appears as a whole token in s, where
// tokens are runs of letters and digits.
func containsWord(s, w string) bool {
	for _, tok := range splitTokens(s) {
		if tok == w {
			return true
		}
	}
	return false
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
