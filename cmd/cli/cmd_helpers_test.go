package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/jsonutil"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadRecordsArray(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "records.json", `[{"alert":"a"},{"alert":"b"}]`)
	records, err := readRecords(path)
	if err != nil {
		t.Fatalf("readRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !jsonutil.Valid(records[0]) {
		t.Errorf("record 0 is not valid JSON: %s", records[0])
	}
}

func TestReadRecordsSingleObject(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "record.json", `{"alert":"only one"}`)
	records, err := readRecords(path)
	if err != nil {
		t.Fatalf("readRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestReadRecordsGarbage(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "garbage.txt", "this is not json")
	if _, err := readRecords(path); err == nil {
		t.Fatal("expected error for non-JSON input")
	}
}

func TestLoadFindingsDocument(t *testing.T) {
	t.Parallel()

	doc := findingsDocument{Findings: []finding.Finding{
		{Title: "SQL Injection", Severity: finding.High, Category: finding.CategorySQLInjection},
	}}
	data, err := jsonutil.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := writeTemp(t, "findings.json", string(data))

	findings, err := loadFindings(path)
	if err != nil {
		t.Fatalf("loadFindings: %v", err)
	}
	if len(findings) != 1 || findings[0].Title != "SQL Injection" {
		t.Errorf("findings = %+v", findings)
	}
}

func TestLoadFindingsBareArray(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "bare.json", `[{"title":"XSS","severity":"medium","category":"xss"}]`)
	findings, err := loadFindings(path)
	if err != nil {
		t.Fatalf("loadFindings: %v", err)
	}
	if len(findings) != 1 || findings[0].Severity != finding.Medium {
		t.Errorf("findings = %+v", findings)
	}
}

func TestLoadFindingsRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "bad.json", `{"unrelated": true}`)
	if _, err := loadFindings(path); err == nil {
		t.Fatal("expected error for non-findings document")
	}
}
