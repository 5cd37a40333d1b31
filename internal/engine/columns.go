package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Column schema and mapper: project a field map onto the user-configured
// output columns.

// SerialColumn is the synthetic running-number column. Its values are
// generated per output record, never read from a field map.
const SerialColumn = "S/N"

// DefaultColumns is the roster layout the original exports use.
var DefaultColumns = []string{
	SerialColumn, "CO-OP NAME", "NAME", "PHONE NO", "BANK NAME", "ACCT NO", "SEX",
}

// Schema is an ordered, mutable list of output column names. Names are
// unique and non-empty, with at most one serial column.
type Schema struct {
	names []string
}

// NewSchema validates and wraps the given column names.
func NewSchema(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("schema needs at least one column")
	}
	seen := make(map[string]bool, len(names))
	serials := 0
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("schema contains an empty column name")
		}
		upper := strings.ToUpper(trimmed)
		if seen[upper] {
			return nil, fmt.Errorf("duplicate column %q", trimmed)
		}
		seen[upper] = true
		if upper == SerialColumn {
			serials++
		}
	}
	if serials > 1 {
		return nil, fmt.Errorf("schema may contain at most one %s column", SerialColumn)
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = strings.TrimSpace(name)
	}
	return &Schema{names: out}, nil
}

// DefaultSchema returns a schema with the default roster columns.
func DefaultSchema() *Schema {
	s, _ := NewSchema(DefaultColumns)
	return s
}

// Names returns a copy of the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.names) }

// Add appends a column, rejecting duplicates and second serial columns.
func (s *Schema) Add(name string) error {
	next, err := NewSchema(append(s.Names(), name))
	if err != nil {
		return err
	}
	s.names = next.names
	return nil
}

// Remove deletes a column by name, case-insensitively.
func (s *Schema) Remove(name string) error {
	target := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range s.names {
		if strings.ToUpper(n) == target {
			if len(s.names) == 1 {
				return fmt.Errorf("cannot remove the last column")
			}
			s.names = append(s.names[:i], s.names[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no column %q", name)
}

// Reset restores the default columns.
func (s *Schema) Reset() {
	s.names = DefaultSchema().names
}

// GroupColumnIndex returns the index of the first column that maps to the
// organization-name field, or -1 when the schema has none.
func (s *Schema) GroupColumnIndex() int {
	for i, name := range s.names {
		if NormalizeKey(name) == KeyOrgName {
			return i
		}
	}
	return -1
}

// MapRow projects a field map onto the schema, producing one output row.
// serial is the 1-based record number used for the serial column.
func (s *Schema) MapRow(fields map[FieldKey]string, serial int) []string {
	row := make([]string, len(s.names))
	for i, name := range s.names {
		if strings.ToUpper(name) == SerialColumn {
			row[i] = strconv.Itoa(serial)
			continue
		}
		row[i] = MapColumn(name, fields)
	}
	return row
}

// MapColumn resolves one column against a field map: the column name is
// normalized to its canonical key, that key and its aliases are tried in
// order, and the first non-empty value wins. Person-name columns reject
// values that read as a bank or organization name, so a generic "name"
// entry cannot bleed across fields. Unrecognized column names fall back
// to an exact pass-through lookup.
func MapColumn(column string, fields map[FieldKey]string) string {
	canon := NormalizeKey(column)
	tried := make(map[FieldKey]bool)
	for _, key := range columnAliases(canon) {
		tried[key] = true
		v := strings.TrimSpace(fields[key])
		if v == "" {
			continue
		}
		if canon == KeyName && (isBankName(v) || hasOrgSuffix(v)) {
			continue
		}
		return v
	}
	if cleaned := cleanRawKey(column); cleaned != "" && !tried[cleaned] {
		return strings.TrimSpace(fields[cleaned])
	}
	return ""
}

// columnAliases lists the canonical keys tried for a column, most
// specific first.
func columnAliases(canon FieldKey) []FieldKey {
	switch canon {
	case KeyOrgName:
		return []FieldKey{KeyOrgName}
	case KeyName:
		return []FieldKey{KeyName}
	case KeyPhone:
		return []FieldKey{KeyPhone}
	case KeyBank:
		return []FieldKey{KeyBank}
	case KeyAccount:
		return []FieldKey{KeyAccount}
	case KeySex:
		return []FieldKey{KeySex}
	case KeyEmail:
		return []FieldKey{KeyEmail}
	case KeyAddress:
		return []FieldKey{KeyAddress}
	}
	return []FieldKey{canon}
}
