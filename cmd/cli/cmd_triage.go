package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vulndelta/vulndelta/pkg/exitcode"
	"github.com/vulndelta/vulndelta/pkg/finding"
	"github.com/vulndelta/vulndelta/pkg/normalize"
	"github.com/vulndelta/vulndelta/pkg/pipeline"
	"github.com/vulndelta/vulndelta/pkg/prioritize"
	"github.com/vulndelta/vulndelta/pkg/ui"
)

// runTriage executes the full aggregation pass over raw scanner output
// and writes the prioritized findings document.
func runTriage() {
	fs := flag.NewFlagSet("triage", flag.ExitOnError)
	zapPath := fs.String("zap", "", "ZAP alerts JSON file")
	nucleiPath := fs.String("nuclei", "", "Nuclei results JSON file")
	rulesPath := fs.String("rules", "", "False-positive rules YAML (default: built-in rules)")
	effortsPath := fs.String("efforts", "", "Remediation effort table YAML (default: built-in table)")
	output := fs.String("o", "", "Output file for the findings document (default: stdout)")
	format := fs.String("format", "console", "Output format: console, json")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)
	logger := newLogger(*verbose)

	var inputs []pipeline.Input
	for _, src := range []struct{ id, path string }{
		{"zap", *zapPath},
		{"nuclei", *nucleiPath},
	} {
		if src.path == "" {
			continue
		}
		records, err := readRecords(src.path)
		if err != nil {
			exitWithInputError("reading %s input: %v", src.id, err)
		}
		inputs = append(inputs, pipeline.Input{SourceID: src.id, Records: records})
	}
	if len(inputs) == 0 {
		exitWithConfigError("at least one of -zap or -nuclei is required")
	}

	opts := pipeline.Options{Logger: logger}
	if *rulesPath != "" {
		rules, err := normalize.LoadRules(*rulesPath)
		if err != nil {
			exitWithConfigError("loading rules: %v", err)
		}
		opts.FPRules = rules
	}
	if *effortsPath != "" {
		efforts, err := prioritize.LoadEffortTable(*effortsPath)
		if err != nil {
			exitWithConfigError("loading effort table: %v", err)
		}
		opts.Efforts = efforts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := exitcode.New(exitcode.Config{})
	result, err := pipeline.New(opts).Run(ctx, inputs)
	if err != nil {
		if ctx.Err() != nil {
			manager.SetInterrupted()
		} else {
			manager.SetInputError()
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		code, _ := manager.ExitCode()
		os.Exit(int(code))
	}

	manager.RecordBlockers(result.BlockerCount())
	manager.RecordSkipped(finding.CountWarnings(result.Warnings, finding.WarnRecordSkipped))

	switch *format {
	case "json":
		if err := writeJSON(*output, result); err != nil {
			exitWithInputError("writing output: %v", err)
		}
	case "console":
		printTriageConsole(result)
		if *output != "" {
			if err := writeResult(*output, result); err != nil {
				exitWithInputError("writing output: %v", err)
			}
		}
	default:
		exitWithConfigError("unknown format %q (supported: console, json)", *format)
	}

	code, reason := manager.ExitCode()
	if code != exitcode.Success {
		fmt.Fprintln(os.Stderr, reason)
	}
	os.Exit(int(code))
}

func printTriageConsole(result *pipeline.Result) {
	fmt.Println(ui.SectionStyle.Render("Findings"))
	ui.PrintFindings(os.Stdout, result.Findings)
	fmt.Println()
	fmt.Printf("  %s %s\n",
		ui.LabelStyle.Render("Unique:"),
		ui.ValueStyle.Render(fmt.Sprintf("%d", len(result.Findings))))
	fmt.Printf("  %s %s\n",
		ui.LabelStyle.Render("Duplicates:"),
		ui.MutedStyle.Render(fmt.Sprintf("%d", result.DuplicatesRemoved)))
	fmt.Printf("  %s %s\n",
		ui.LabelStyle.Render("Blockers:"),
		ui.NewStyle.Render(fmt.Sprintf("%d", result.BlockerCount())))
	ui.PrintPlan(os.Stdout, result.Plan)
	ui.PrintWarnings(os.Stdout, result.Warnings)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
