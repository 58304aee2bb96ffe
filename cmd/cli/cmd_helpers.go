package main

import (
	"fmt"
	"os"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/vulndelta/vulndelta/pkg/exitcode"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/jsonutil"
	"github.com/vulndelta/vulndelta/pkg/pipeline"
)

func exitWithConfigError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(int(exitcode.Configuration))
}

func exitWithInputError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(int(exitcode.Input))
}

// readRecords loads one scanner's raw output. Accepts a JSON array of
// records or a single record object; each element is handed to the
// source adapter as-is.
func readRecords(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var arr []jsontext.Value
	if err := jsonutil.Unmarshal(data, &arr); err == nil {
		records := make([][]byte, 0, len(arr))
		for _, v := range arr {
			records = append(records, []byte(v))
		}
		return records, nil
	}
	if jsonutil.Valid(data) {
		return [][]byte{data}, nil
	}
	return nil, fmt.Errorf("%s: not a JSON record or array of records", path)
}

// findingsDocument is the shape triage writes and diff/accept/plan read.
// A bare JSON array of findings is accepted too.
type findingsDocument struct {
	Findings []finding.Finding `json:"findings"`
}

// loadFindings reads a findings document produced by triage.
func loadFindings(path string) ([]finding.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc findingsDocument
	if err := jsonutil.Unmarshal(data, &doc); err == nil && doc.Findings != nil {
		return doc.Findings, nil
	}
	var bare []finding.Finding
	if err := jsonutil.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("%s: not a findings document", path)
}

func writeResult(path string, result *pipeline.Result) error {
	data, err := jsonutil.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeJSON(path string, v any) error {
	data, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}
