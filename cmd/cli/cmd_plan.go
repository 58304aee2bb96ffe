package main

import (
	"flag"
	"os"

	"github.com/vulndelta/vulndelta/pkg/plan"
	"github.com/vulndelta/vulndelta/pkg/ui"
)

// runPlan prints the ordered remediation plan for a findings document.
func runPlan() {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	currentPath := fs.String("current", "", "Current findings document (from triage)")
	format := fs.String("format", "console", "Output format: console, json")
	output := fs.String("o", "", "Output file for the plan document")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	if *currentPath == "" {
		args := fs.Args()
		if len(args) >= 1 {
			*currentPath = args[0]
		} else {
			exitWithConfigError("-current is required")
		}
	}

	findings, err := loadFindings(*currentPath)
	if err != nil {
		exitWithInputError("loading findings: %v", err)
	}

	p := plan.Build(findings)
	switch *format {
	case "json":
		if err := writeJSON(*output, p); err != nil {
			exitWithInputError("writing plan: %v", err)
		}
	case "console":
		ui.PrintPlan(os.Stdout, p)
		if *output != "" {
			if err := writeJSON(*output, p); err != nil {
				exitWithInputError("writing plan: %v", err)
			}
		}
	default:
		exitWithConfigError("unknown format %q (supported: console, json)", *format)
	}
}
