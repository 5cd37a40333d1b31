package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCanHandle(t *testing.T) {
	cases := []struct {
		imp  Importer
		path string
		want bool
	}{
		{&PlainTextImporter{}, "roster.txt", true},
		{&PlainTextImporter{}, "roster.log", true},
		{&PlainTextImporter{}, "roster", true},
		{&PlainTextImporter{}, "roster.docx", false},
		{&DocxImporter{}, "roster.docx", true},
		{&DocxImporter{}, "ROSTER.DOCX", true},
		{&DocxImporter{}, "roster.txt", false},
		{&PDFImporter{}, "roster.pdf", true},
		{&PDFImporter{}, "roster.csv", false},
		{&CSVImporter{}, "roster.csv", true},
		{&CSVImporter{}, "roster.pdf", false},
	}
	for _, tc := range cases {
		if got := tc.imp.CanHandle(tc.path); got != tc.want {
			t.Errorf("%T.CanHandle(%q) = %v, want %v", tc.imp, tc.path, got, tc.want)
		}
	}
}

func TestPlainTextImporter_NormalizesLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.txt")
	if err := os.WriteFile(path, []byte("NAME: John Doe\r\nSEX: MALE\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := (&PlainTextImporter{}).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if text != "NAME: John Doe\nSEX: MALE\n" {
		t.Errorf("text = %q", text)
	}
}

func TestCSVImporter_RendersKeyValueStanzas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "NAME,PHONE NO,SEX\nJohn Doe,08012345678,MALE\nJane Smith,,FEMALE\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := (&CSVImporter{}).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	want := "NAME: John Doe\nPHONE NO: 08012345678\nSEX: MALE\n\n" +
		"NAME: Jane Smith\nSEX: FEMALE\n\n"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestCSVImporter_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte("NAME,PHONE NO\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	text, err := (&CSVImporter{}).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

const docxBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>NAME: John Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>PHONE NO: </w:t></w:r><w:r><w:t>08012345678</w:t></w:r></w:p>
    <w:p><w:r><w:t>SEX: MALE</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeTestDocx(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(docxBody)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocxImporter_ParagraphsAndRuns(t *testing.T) {
	path := writeTestDocx(t, t.TempDir())

	text, err := (&DocxImporter{}).Import(context.Background(), path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	want := []string{"NAME: John Doe", "PHONE NO: 08012345678", "SEX: MALE"}
	got := strings.Split(strings.TrimSpace(text), "\n")
	if len(got) != len(want) {
		t.Fatalf("lines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDocxImporter_MissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := (&DocxImporter{}).Import(context.Background(), path); err == nil {
		t.Error("expected error for archive without word/document.xml")
	}
}

func TestReadDocument_DispatchAndFallback(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "roster.dat")
	if err := os.WriteFile(txt, []byte("NAME: John Doe\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Unknown extension falls back to plain text.
	text, err := ReadDocument(context.Background(), txt)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if text != "NAME: John Doe\n" {
		t.Errorf("text = %q", text)
	}

	docx := writeTestDocx(t, dir)
	text, err = ReadDocument(context.Background(), docx)
	if err != nil {
		t.Fatalf("ReadDocument docx: %v", err)
	}
	if !strings.Contains(text, "NAME: John Doe") {
		t.Errorf("docx text = %q", text)
	}
}

func TestReadDocument_MissingFile(t *testing.T) {
	if _, err := ReadDocument(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
