package engine

import (
	"reflect"
	"strings"
	"testing"
)

const rosterText = `NAME: John Doe
CO-OP NAME: Alpha Co-op
PHONE NO: 08012345678
BANK NAME: First Bank
ACCT NO: 1234567890
SEX: MALE

CEO NAME: Jane Smith
CO-OP NAME: Beta Co-op
PHONE NO: 08087654321
`

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(DefaultConfig())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func TestProcess_Roster(t *testing.T) {
	p := newTestPipeline(t)
	res := p.Process(rosterText)

	if !reflect.DeepEqual(res.Headers, DefaultColumns) {
		t.Fatalf("headers = %v", res.Headers)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(res.Rows), res.Rows)
	}

	want := [][]string{
		{"1", "Alpha Co-op", "John Doe", "08012345678", "First Bank", "1234567890", "Male"},
		{"2", "Beta Co-op", "Jane Smith", "08087654321", "", "", ""},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}

	groups := GroupRows(res.Rows, p.GroupColumnIndex())
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %v", groups)
	}
	if groups[0].Name != "Alpha Co-op" || groups[1].Name != "Beta Co-op" {
		t.Errorf("group names = %q, %q", groups[0].Name, groups[1].Name)
	}
	if len(groups[0].Rows) != 1 || len(groups[1].Rows) != 1 {
		t.Errorf("group sizes = %d, %d", len(groups[0].Rows), len(groups[1].Rows))
	}
}

func TestProcess_EmptyHeadersIffEmptyRows(t *testing.T) {
	p := newTestPipeline(t)

	inputs := []string{
		"",
		"   \n\n  ",
		"🙏 Thank you all",
		rosterText,
	}
	for _, text := range inputs {
		res := p.Process(text)
		if (len(res.Headers) == 0) != (len(res.Rows) == 0) {
			t.Errorf("input %q: headers %d, rows %d", text, len(res.Headers), len(res.Rows))
		}
		for _, row := range res.Rows {
			if len(row) != len(res.Headers) {
				t.Errorf("input %q: row width %d != header width %d", text, len(row), len(res.Headers))
			}
		}
	}
}

func TestProcess_Idempotent(t *testing.T) {
	p := newTestPipeline(t)
	first := p.Process(rosterText)
	second := p.Process(rosterText)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ across runs:\n%v\n%v", first, second)
	}
}

func TestProcess_NoiseImmunity(t *testing.T) {
	p := newTestPipeline(t)

	noisy := strings.Replace(rosterText, "\nCEO NAME:",
		"\nYOU JUST HAVE NOW TILL 3PM TOMORROW TO SEND YOUR DETAILS\nCEO NAME:", 1)
	clean := p.Process(rosterText)
	withNoise := p.Process(noisy)
	if !reflect.DeepEqual(clean, withNoise) {
		t.Errorf("noise line changed the result:\n%v\n%v", clean, withNoise)
	}
}

func TestProcess_OrphanReattachment(t *testing.T) {
	p := newTestPipeline(t)

	res := p.Process("CO-OP NAME: Alpha Co-op\nCEO NAME: Jane Doe\nFIRST BANK\n")
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %v", res.Rows)
	}
	row := res.Rows[0]
	if row[1] != "Alpha Co-op" || row[2] != "Jane Doe" {
		t.Errorf("row = %v", row)
	}
	if row[4] != "FIRST BANK" {
		t.Errorf("bank column = %q, want %q", row[4], "FIRST BANK")
	}
}

func TestProcess_GroupingAcrossLabelVariants(t *testing.T) {
	p := newTestPipeline(t)

	text := `NAME: John Doe
CO-OP NAME: Alpha Co-op
SEX: MALE

NAME: Mary Jane
COOP NAME: Alpha Co-op
SEX: FEMALE

NAME: Peter Obi
Cooperative Name: Alpha Co-op
SEX: MALE
`
	res := p.Process(text)
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", res.Rows)
	}
	groups := GroupRows(res.Rows, p.GroupColumnIndex())
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %v", groups)
	}
	if groups[0].Name != "Alpha Co-op" || len(groups[0].Rows) != 3 {
		t.Errorf("group = %q with %d rows", groups[0].Name, len(groups[0].Rows))
	}
}

func TestProcess_CustomColumns(t *testing.T) {
	p, err := NewPipeline(Config{
		Columns:    []string{"S/N", "NAME", "PHONE NO"},
		StartField: "NAME",
		EndField:   "SEX",
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	res := p.Process(rosterText)
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %v", res.Rows)
	}
	want := [][]string{
		{"1", "John Doe", "08012345678"},
		{"2", "Jane Smith", "08087654321"},
	}
	if !reflect.DeepEqual(res.Rows, want) {
		t.Errorf("rows = %v, want %v", res.Rows, want)
	}
}

func TestNewPipeline_InvalidSchema(t *testing.T) {
	if _, err := NewPipeline(Config{Columns: []string{"NAME", "NAME"}}); err == nil {
		t.Error("expected error for duplicate columns")
	}
}

func TestNewPipeline_Defaults(t *testing.T) {
	p, err := NewPipeline(Config{})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if !reflect.DeepEqual(p.Schema().Names(), DefaultColumns) {
		t.Errorf("default columns = %v", p.Schema().Names())
	}
}
