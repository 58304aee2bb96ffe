// Command vulndelta aggregates heterogeneous scanner output into a
// deduplicated, prioritized finding set and tracks drift against an
// accepted baseline. The exit code gates CI/CD deployment: 0 means no
// blockers and no regressions.
package main

import (
	"fmt"
	"os"

	"github.com/vulndelta/vulndelta/pkg/exitcode"
	"github.com/vulndelta/vulndelta/pkg/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(int(exitcode.Configuration))
	}

	switch os.Args[1] {
	case "triage", "aggregate":
		runTriage()
	case "diff", "compare":
		runDiff()
	case "accept", "baseline":
		runAccept()
	case "plan":
		runPlan()
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	case "-v", "--version", "version":
		fmt.Println("vulndelta " + version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(int(exitcode.Configuration))
	}
}

func printUsage() {
	fmt.Println(ui.TitleStyle.Render("vulndelta") + " " + ui.MutedStyle.Render("v"+version))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vulndelta triage  -zap zap.json -nuclei nuclei.json -o findings.json")
	fmt.Println("  vulndelta diff    -current findings.json -baseline baseline.json")
	fmt.Println("  vulndelta accept  -current findings.json -baseline baseline.json")
	fmt.Println("  vulndelta plan    -current findings.json")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  triage   Normalize, deduplicate, and prioritize raw scanner output")
	fmt.Println("  diff     Classify drift between current findings and a baseline")
	fmt.Println("  accept   Record current findings as the new baseline snapshot")
	fmt.Println("  plan     Print the ordered remediation plan")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Printf("  0  %s\n", exitcode.CodeDescription(exitcode.Success))
	fmt.Printf("  1  %s\n", exitcode.CodeDescription(exitcode.RiskFound))
	fmt.Printf("  2  %s\n", exitcode.CodeDescription(exitcode.Degraded))
	fmt.Printf("  3  %s\n", exitcode.CodeDescription(exitcode.Configuration))
	fmt.Printf("  4  %s\n", exitcode.CodeDescription(exitcode.Input))
}
