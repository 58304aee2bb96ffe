package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vulndelta/vulndelta/pkg/baseline"
	"github.com/vulndelta/vulndelta/pkg/ui"
)

// runAccept records a findings document as the new baseline snapshot.
// Entries from the prior baseline that no longer appear are carried
// forward with status fixed so future reappearances count as
// regressions.
func runAccept() {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	currentPath := fs.String("current", "", "Current findings document (from triage)")
	baselinePath := fs.String("baseline", "", "Baseline snapshot path to write")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	fs.Parse(os.Args[2:])

	ui.SetNoColor(*noColor)

	if *currentPath == "" || *baselinePath == "" {
		exitWithConfigError("both -current and -baseline are required")
	}

	current, err := loadFindings(*currentPath)
	if err != nil {
		exitWithInputError("loading current findings: %v", err)
	}

	prior, err := baseline.Load(*baselinePath)
	if err != nil && !errors.Is(err, baseline.ErrNotFound) {
		exitWithInputError("loading prior baseline: %v", err)
	}

	snap := baseline.Accept(current, prior, time.Now())
	if err := snap.Save(*baselinePath); err != nil {
		exitWithInputError("saving baseline: %v", err)
	}

	carried := len(snap.Findings) - len(current)
	fmt.Printf("%s %d findings accepted", ui.FixedStyle.Render("baseline updated:"), len(current))
	if carried > 0 {
		fmt.Printf(", %d fixed entries carried forward", carried)
	}
	fmt.Println()
}
