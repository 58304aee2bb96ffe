package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vulndelta/vulndelta/pkg/baseline"
	"github.com/vulndelta/vulndelta/pkg/exitcode"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/ui"
)

// runDiff classifies drift between a current findings document and an
// accepted baseline. Exit code 0 means no blockers and no regressions.
func runDiff() {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	currentPath := fs.String("current", "", "Current findings document (from triage)")
	baselinePath := fs.String("baseline", "", "Accepted baseline snapshot")
	format := fs.String("format", "console", "Output format: console, json")
	output := fs.String("o", "", "Output file for the delta document")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	// Positional form: vulndelta diff current.json baseline.json
	args := fs.Args()
	if *currentPath == "" && *baselinePath == "" && len(args) >= 2 {
		*currentPath = args[0]
		*baselinePath = args[1]
	}
	if *currentPath == "" || *baselinePath == "" {
		exitWithConfigError("both -current and -baseline are required")
	}

	current, err := loadFindings(*currentPath)
	if err != nil {
		exitWithInputError("loading current findings: %v", err)
	}
	snap, err := baseline.Load(*baselinePath)
	if err != nil {
		if errors.Is(err, baseline.ErrNotFound) {
			exitWithInputError("baseline %s does not exist; run accept first", *baselinePath)
		}
		exitWithInputError("loading baseline: %v", err)
	}

	report := baseline.Diff(current, snap, time.Now())

	switch *format {
	case "json":
		if err := writeJSON(*output, report); err != nil {
			exitWithInputError("writing delta: %v", err)
		}
	case "console":
		ui.PrintDeltaSummary(os.Stdout, report)
		if *output != "" {
			if err := writeJSON(*output, report); err != nil {
				exitWithInputError("writing delta: %v", err)
			}
		}
	default:
		exitWithConfigError("unknown format %q (supported: console, json)", *format)
	}

	manager := exitcode.New(exitcode.Config{})
	manager.RecordRegressions(report.Stats.RegressionCount)
	manager.RecordBlockers(countBlockers(current))
	code, reason := manager.ExitCode()
	if code != exitcode.Success {
		fmt.Fprintln(os.Stderr, reason)
	}
	os.Exit(int(code))
}

func countBlockers(findings []finding.Finding) int {
	n := 0
	for _, f := range findings {
		if f.IsBlocker && !f.IsFalsePositive {
			n++
		}
	}
	return n
}
